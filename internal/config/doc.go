// Package config provides configuration parsing for the registry server.
//
// The configuration is stored in registry.json next to the binary or in the
// directory passed with --config. Every field is optional; missing values
// fall back to the defaults returned by New.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 3100,
//	    "readTimeout": "60s",
//	    "writeTimeout": "10s"
//	  },
//	  "navigation": {
//	    "mode": "replace"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vango_registry"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "serviceName": "vango-registry"
//	  },
//	  "log": {
//	    "level": "info"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOptional("registry.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Server.Addr())
package config
