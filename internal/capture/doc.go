// Package capture records the frames of a client session and replays them.
//
// A Recorder is registered on a client.Manager as its frame observer:
//
//	session := capture.NewSession("room-1-20240101T120000", sinks)
//	m := client.New(client.WithFrameObserver(session.Recorder()))
//	...
//	err := session.Finish(ctx, logger)
//
// Captures are stored by a Sink: DirSink writes files locally, S3Sink
// uploads them to a bucket. A Reader walks the records of a capture in
// order.
package capture
