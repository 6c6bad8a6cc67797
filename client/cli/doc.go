/*
Package cli provides the ocdb-cli command tree. Commands are thin wrappers
around api.Client; results are printed as indented JSON (or YAML) on stdout
while logs go to stderr. The server URL and password key are read from the
JSON config file unless --server overrides the URL for one invocation.
*/
package cli
