package model

import "time"

const AppName = "nas-console"

// Methods accepted by the request engine and the catalog.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPatch  = "PATCH"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

type ConsoleConfig struct {
	APIBase        string        `env:"CONSOLE_API_BASE" envDefault:"http://127.0.0.1:8000"`
	ListenAddr     string        `env:"CONSOLE_LISTEN_ADDR" envDefault:":8080"`
	MenuFile       string        `env:"CONSOLE_MENU_FILE"`
	RequestTimeout time.Duration `env:"CONSOLE_REQUEST_TIMEOUT" envDefault:"0s"`
	TLSCert        string        `env:"CONSOLE_TLS_CERT"`
	TLSKey         string        `env:"CONSOLE_TLS_KEY"`
}
