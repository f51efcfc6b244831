package v1

import (
	"net/http"
	"time"

	"github.com/erikmagkekse/nas-console/console"

	"github.com/labstack/echo/v5"
)

// Healthz reports liveness plus what the shared session is doing. The backend is
// not probed: a console with an unreachable API is still serving.
func Healthz(session *console.Session, version, commit string, features map[string]string) echo.HandlerFunc {
	started := time.Now()

	return func(c *echo.Context) error {
		v := session.View()
		resp := HealthResponse{
			Status:        "ok",
			Version:       version,
			Commit:        commit,
			UptimeSeconds: int(time.Since(started).Seconds()),
			Running:       runningSlots(v),
			Features:      features,
		}
		if v.Item != nil {
			resp.Selected = v.Item.Key
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func runningSlots(v console.View) int {
	n := 0
	if v.Primary.Busy {
		n++
	}
	for _, a := range v.Actions {
		if a.Busy {
			n++
		}
	}
	return n
}
