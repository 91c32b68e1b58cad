// Package logger builds slog loggers with functional options and injects
// request-scoped values from context.Context into every record.
//
// New picks a text or JSON handler and wraps it in LogHandlerDecorator,
// which runs the registered ContextExtractor callbacks on each Handle call.
// NewFromConfig does the same from LOG_* and APP_ENV environment variables.
//
// Attribute helpers in attr.go keep key names consistent. SessionID only
// logs a short prefix of the id.
//
//	log := logger.New(
//	    logger.WithDevelopment("sessiond"),
//	    logger.WithContextExtractors(environment.LoggerExtractor()),
//	)
//	log.WarnContext(ctx, "session persist failed",
//	    logger.Component("session"),
//	    logger.SessionID(rec.ID()),
//	    logger.Error(err),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
