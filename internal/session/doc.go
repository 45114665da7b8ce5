// Package session holds per-user explorer state. Each Session records the
// user name, the uploaded table, the clean result and the chart mode; the
// Store hands out copies so concurrent requests never share a Session value.
package session
