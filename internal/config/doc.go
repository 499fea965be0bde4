// Package config loads the mjnet.yaml file used by the mjclient command.
//
// A complete file with the default values:
//
//	server:
//	  url: ws://localhost:8080/ws
//	  handshake_timeout: 10s
//	player:
//	  id: ""        # random when empty
//	  name: ""
//	room:
//	  id: room-1
//	reconnect:
//	  enabled: false
//	  delay: 3s
//	logging:
//	  level: info   # debug, info, warn, error
//	  format: text  # text, json
//	metrics:
//	  addr: ""      # e.g. :9090 to serve /metrics
//	capture:
//	  dir: ""       # record frames to this directory
//	  s3_bucket: ""
//	  s3_prefix: captures/
//	  s3_region: ""
//
// Load searches the working directory, then ~/.config/mjnet.
package config
