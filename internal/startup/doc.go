// Package startup owns process configuration and the startup/shutdown log
// output: environment loading (including .env files), directory resolution
// and write probing, build information, and the sectioned banner printed at
// boot.
package startup
