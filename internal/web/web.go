// Package web holds the embedded HTML pages served by the API: the chat
// page at / and the analytics dashboard at /admin/dashboard.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte

//go:embed dashboard.html
var DashboardHTML []byte
