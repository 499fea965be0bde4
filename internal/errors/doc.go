// Package errors provides coded, actionable error messages for the mjclient
// command.
//
// Each error has a unique code (e.g., "E120") that maps to a short message,
// a detailed explanation and, where one helps, a hint:
//
//	E100-E119  config      mjnet.yaml loading and validation
//	E120-E139  connection  dialing and joining a room
//	E140-E159  protocol    frame and payload decoding
//	E160-E179  capture     frame capture files and uploads
//	E180-E199  cli         command-line usage
//
// # Usage
//
//	err := errors.New("E101").
//	    WithLocationFromError("mjnet.yaml", yamlErr)
//
//	errors.Fprint(os.Stderr, err)
//	// ERROR E101: Invalid config file
//	//
//	//   mjnet.yaml:3
//	//
//	//       1 │ server:
//	//       2 │   url: ws://localhost:8080/ws
//	//   →   3 │  player: p1
//	//       4 │ room:
//	//
//	//   The configuration file could not be parsed as YAML.
package errors
