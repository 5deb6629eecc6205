// Package logging configures the process slog handler.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
// Components derive their own loggers from slog.Default():
//
//	log := slog.Default().With("component", "service")
//	log.InfoContext(ctx, "route computed", "duration", d)
//
// Records logged with a context carry request_id, route_id and client_ip
// when the context holds them (see WithRequestID and WithRouteID).
//
// The level is held in a slog.LevelVar, so SetLevel takes effect on every
// derived logger without rebuilding them. The config watcher uses this for
// hot reload.
//
// # Redaction
//
// With Redact set, attributes named authorization or password and any
// bearer or basic credential inside a string value are replaced with
// [REDACTED].
package logging
