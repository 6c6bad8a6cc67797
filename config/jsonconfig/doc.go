/*
Jsonconfig persists the client configuration as a JSON object in a file.

The file is read through koanf on every Read and rewritten as a whole on
Write. A missing file is an empty configuration:

	store := jsonconfig.NewFileStore(config.DefaultPath())
	cfg, _ := store.Read()
	cfg[config.ServerURL] = "https://ocdb.example.org"
	_ = store.Write(cfg)
*/
package jsonconfig
