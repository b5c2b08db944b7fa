// Package server serves a generated documentation site with the security
// headers, health and metrics endpoints the deployment expects.
package server
