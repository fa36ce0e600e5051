package testutil

import "log/slog"

// DiscardLogger drops all log output, keeping test runs quiet.
var DiscardLogger = slog.New(slog.DiscardHandler)
