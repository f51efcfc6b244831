package v1

const consoleHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>nas-console</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: system-ui, sans-serif; background: #0d1117; color: #c9d1d9; display: flex; min-height: 100vh; }
nav { width: 300px; background: #010409; border-right: 1px solid #30363d; padding: 16px; overflow-y: auto; }
nav h1 { font-size: 1.1em; margin-bottom: 4px; }
nav .meta { color: #8b949e; font-size: .75em; margin-bottom: 16px; }
.group h3 { font-size: .8em; color: #8b949e; margin: 14px 0 6px; font-weight: 500; }
.item { padding: 6px 10px; border-radius: 6px; cursor: pointer; font-size: .9em; }
.item:hover { background: #161b22; }
.item.active { background: #1f6feb33; color: #58a6ff; }
.item .key { color: #484f58; font-size: .8em; margin-left: 4px; }
main { flex: 1; padding: 20px; overflow-y: auto; }
h2 { font-size: 1.3em; margin-bottom: 4px; }
h4 { font-size: .95em; margin-bottom: 6px; }
.desc { color: #8b949e; margin-bottom: 8px; }
.tags span { display: inline-block; padding: 1px 8px; border-radius: 10px; background: #21262d; margin: 0 6px 6px 0; font-size: .8em; color: #8b949e; }
.features { margin: 6px 0 10px 18px; font-size: .85em; }
table { border-collapse: collapse; margin: 6px 0 12px; font-size: .85em; }
td, th { padding: 4px 10px; border-bottom: 1px solid #21262d; text-align: left; }
.card { background: #161b22; border: 1px solid #30363d; border-radius: 8px; padding: 14px; margin: 12px 0; }
.row { display: flex; gap: 8px; margin-bottom: 8px; }
select, input, textarea { background: #0d1117; color: #c9d1d9; border: 1px solid #30363d; border-radius: 6px; padding: 6px 8px; font-family: ui-monospace, monospace; font-size: .85em; }
input { flex: 1; }
textarea { width: 100%; min-height: 90px; resize: vertical; }
button { background: #238636; color: #fff; border: none; border-radius: 6px; padding: 6px 14px; cursor: pointer; font-size: .85em; }
button:disabled { background: #21262d; color: #484f58; cursor: default; }
pre { background: #0d1117; border: 1px solid #21262d; border-radius: 6px; padding: 10px; margin-top: 8px; white-space: pre-wrap; word-break: break-all; font-size: .82em; max-height: 480px; overflow: auto; }
.status { font-size: .85em; margin-top: 6px; }
.ok { color: #3fb950; }
.fail { color: #f85149; }
.busy { color: #d29922; }
.mono { font-family: ui-monospace, monospace; }
.empty { color: #484f58; font-style: italic; }
</style>
</head>
<body>
<nav>
<h1>nas-console</h1>
<div class="meta">v{{VERSION}} &middot; backend {{API_BASE}}</div>
<div id="menu"><span class="empty">loading...</span></div>
</nav>
<main id="content"><p class="empty">Select a menu item.</p></main>

<script>
let activeKey = null;

function esc(s) {
  return String(s == null ? '' : s).replace(/[&<>"']/g, c => ({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;',"'":'&#39;'}[c]));
}

async function api(path, opts) {
  const r = await fetch(path, opts);
  const data = await r.json();
  if (!r.ok) throw new Error(data.error || r.statusText);
  return data;
}

function send(method, path, body) {
  return api(path, { method: method, headers: {'Content-Type': 'application/json'}, body: JSON.stringify(body || {}) });
}

async function loadMenu() {
  const m = await api('/v1/menu');
  document.getElementById('menu').innerHTML = m.groups.map(g =>
    '<div class="group"><h3>' + esc(g.title) + '</h3>' +
    g.items.map(it =>
      '<div class="item' + (it.menuKey === activeKey ? ' active' : '') + '" data-key="' + esc(it.menuKey) + '">' +
      esc(it.name) + '<span class="key">' + esc(it.menuKey) + '</span></div>'
    ).join('') + '</div>'
  ).join('');
  document.querySelectorAll('.item').forEach(el => el.addEventListener('click', () => select(el.dataset.key)));
}

async function select(key) {
  activeKey = key;
  document.querySelectorAll('.item').forEach(el => el.classList.toggle('active', el.dataset.key === key));
  document.getElementById('content').innerHTML = '<p class="busy">loading...</p>';
  try {
    const res = await send('POST', '/v1/session/select', {key: key});
    render(res.view);
  } catch (err) {
    document.getElementById('content').innerHTML = '<p class="fail">' + esc(err.message) + '</p>';
  }
}

function statusLine(s) {
  if (s.busy) return '<div class="status busy">running...</div>';
  if (s.state === 'failed') return '<div class="status fail">failed: ' + esc(s.error) + '</div>';
  if (s.state === 'succeeded') return '<div class="status ok">succeeded in ' + s.duration_ms + ' ms</div>';
  return '';
}

function render(v) {
  const it = v.item;
  const p = v.primary;
  let h = '';
  if (it) {
    h += '<h2>' + esc(it.name) + '</h2><p class="desc">' + esc(it.description) + '</p>' +
      '<div class="tags"><span>path: ' + esc(it.path) + '</span><span>menuKey: ' + esc(it.menuKey) + '</span>' +
      '<span>api: ' + esc(it.apiKey) + '</span>' + (it.action_count ? '<span>' + it.action_count + ' actions</span>' : '') + '</div>';
    if (it.features && it.features.length) {
      h += '<ul class="features">' + it.features.map(f => '<li>' + esc(f) + '</li>').join('') + '</ul>';
    }
    if (it.apis && it.apis.length) {
      h += '<table><tr><th>Method</th><th>Endpoint</th><th></th></tr>' + it.apis.map(a =>
        '<tr><td class="mono">' + esc(a.method) + '</td><td class="mono">' + esc(a.endpoint) + '</td><td>' + esc(a.description) + '</td></tr>').join('') + '</table>';
    }
  }
  const methods = ['GET', 'POST', 'PATCH', 'PUT', 'DELETE'];
  h += '<div class="card"><h4>Request</h4><div class="row">' +
    '<select id="p-method">' + methods.map(m => '<option' + (m === p.method ? ' selected' : '') + '>' + m + '</option>').join('') + '</select>' +
    '<input id="p-endpoint" value="' + esc(p.endpoint) + '">' +
    '<button id="p-run"' + (p.busy ? ' disabled' : '') + '>Send</button></div>' +
    '<textarea id="p-body" placeholder="optional JSON body">' + esc(p.body) + '</textarea>' +
    statusLine(p) + '<pre>' + (p.output ? esc(p.output) : '<span class="empty">no output</span>') + '</pre></div>';

  if (v.actions.length) {
    h += '<h4>Actions</h4>' + v.actions.map((a, i) =>
      '<div class="card"><h4>' + esc(a.label) + '</h4><p class="mono">' + esc(a.method) + ' ' + esc(a.endpoint) + '</p>' +
      '<textarea id="a-body-' + i + '" placeholder="optional JSON payload">' + esc(a.body) + '</textarea>' +
      '<div class="row"><button data-action="' + i + '"' + (a.busy ? ' disabled' : '') + '>Run</button></div>' +
      statusLine(a) + (a.output ? '<pre>' + esc(a.output) + '</pre>' : '') + '</div>'
    ).join('');
  }
  document.getElementById('content').innerHTML = h;

  document.getElementById('p-run').addEventListener('click', runPrimary);
  document.querySelectorAll('button[data-action]').forEach(b => b.addEventListener('click', () => runAction(+b.dataset.action)));
}

async function runPrimary() {
  const body = {
    method: document.getElementById('p-method').value,
    endpoint: document.getElementById('p-endpoint').value,
    body: document.getElementById('p-body').value,
  };
  document.getElementById('p-run').disabled = true;
  try {
    const res = await send('POST', '/v1/session/draft/run', body);
    render(res.view);
  } catch (err) {
    alert('Request failed: ' + err.message);
  }
}

async function runAction(i) {
  const body = document.getElementById('a-body-' + i).value;
  try {
    const res = await send('POST', '/v1/session/actions/' + i + '/run', {body: body});
    render(res.view);
  } catch (err) {
    alert('Action failed: ' + err.message);
  }
}

loadMenu().catch(err => {
  document.getElementById('menu').innerHTML = '<span class="fail">' + esc(err.message) + '</span>';
});
</script>
</body>
</html>`
