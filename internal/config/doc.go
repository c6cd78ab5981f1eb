// Package config loads the reactivity tool configuration.
//
// The configuration lives in reactivity.yaml (or .yml, or .json) and is
// validated with go-playground/validator struct tags.
//
// # Configuration File Structure
//
//	log:
//	  level: info        # debug, info, warn, error
//	  format: text       # text, json
//	devtools:
//	  addr: 127.0.0.1:7070
//	metrics:
//	  enabled: true
//	  namespace: reactivity
//	tracing:
//	  enabled: false
//	  tracerName: reactivity
//	snapshot:
//	  dir: snapshots
//	  bucket: ""
//	  prefix: reactivity/
//	  region: us-east-1
//	  endpoint: ""
//	  pathStyle: false
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ref, err := config.Watch(ctx, cfg.Path(), logger)
//	reactivity.CreateEffect(func() {
//	    levelVar.Set(ref.Get().Log.SlogLevel())
//	})
package config
