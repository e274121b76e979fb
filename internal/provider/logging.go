package provider

import (
	"context"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/Jfmaigne/DSAMAC/internal/connector"
	"github.com/Jfmaigne/DSAMAC/internal/service"
)

const logSubsystem = "provider"

// initializeLogging registers the provider, connector and service subsystems.
// Call it at the start of Configure and of every data source Read.
func initializeLogging(ctx context.Context) context.Context {
	ctx = tflog.NewSubsystem(ctx, logSubsystem, tflog.WithLevelFromEnv("DSAMAC_LOG_PROVIDER"))
	ctx = connector.InitializeLogging(ctx)
	return service.InitializeLogging(ctx)
}

// logDataSourceRead records the outcome of one data source read.
func logDataSourceRead(ctx context.Context, dataSource string, start time.Time, fields map[string]any, err error) {
	logFields := connector.SanitizeFields(fields)
	logFields["data_source"] = dataSource
	logFields["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		logFields["error"] = err.Error()
		logFields["error_category"] = string(connector.GetErrorCategory(err))
		tflog.SubsystemError(ctx, logSubsystem, "Data source read failed", logFields)
		return
	}

	tflog.SubsystemDebug(ctx, logSubsystem, "Data source read completed", logFields)
}
