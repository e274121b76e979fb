package connector

import (
	"context"
	"maps"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Subsystem is the log subsystem used by every connector.
const Subsystem = "connector"

// InitializeLogging registers the connector subsystem on ctx.
// Pattern: DSAMAC_LOG_<SUBSYSTEM>
func InitializeLogging(ctx context.Context) context.Context {
	return tflog.NewSubsystem(ctx, Subsystem,
		tflog.WithLevelFromEnv("DSAMAC_LOG_CONNECTOR"))
}

// LogOperation is a helper function to log an operation with timing.
func LogOperation(ctx context.Context, subsystem, operation string, fields map[string]any, fn func() error) error {
	start := time.Now()

	logFields := make(map[string]any, len(fields)+3)
	maps.Copy(logFields, fields)
	logFields["operation"] = operation

	tflog.SubsystemDebug(ctx, subsystem, "Starting operation", logFields)

	err := fn()

	logFields["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		logFields["error"] = err.Error()
		logFields["error_category"] = string(GetErrorCategory(err))
		tflog.SubsystemError(ctx, subsystem, "Operation failed", logFields)
	} else {
		tflog.SubsystemDebug(ctx, subsystem, "Operation completed successfully", logFields)
	}

	return err
}

// LogPerformance logs performance metrics for an operation.
func LogPerformance(ctx context.Context, subsystem, operation string, duration time.Duration, fields map[string]any) {
	logFields := make(map[string]any, len(fields)+2)
	maps.Copy(logFields, fields)
	logFields["operation"] = operation
	logFields["duration_ms"] = duration.Milliseconds()

	// Spawning the query executable once per record makes slow loads common.
	switch {
	case duration > 30*time.Second:
		tflog.SubsystemWarn(ctx, subsystem, "Slow operation detected", logFields)
	case duration > 5*time.Second:
		tflog.SubsystemInfo(ctx, subsystem, "Operation performance", logFields)
	default:
		tflog.SubsystemDebug(ctx, subsystem, "Operation performance", logFields)
	}
}

// LogCommandEvent logs query executable events.
func LogCommandEvent(ctx context.Context, event string, fields map[string]any) {
	logFields := make(map[string]any, len(fields)+1)
	maps.Copy(logFields, fields)
	logFields["event"] = event

	switch event {
	case "domain_detected", "snapshot_cached":
		tflog.SubsystemInfo(ctx, Subsystem, "Command event", logFields)
	case "command_failed", "domain_detection_failed", "snapshot_failed":
		tflog.SubsystemWarn(ctx, Subsystem, "Command event", logFields)
	case "command_started", "command_completed", "record_skipped":
		tflog.SubsystemDebug(ctx, Subsystem, "Command event", logFields)
	default:
		tflog.SubsystemTrace(ctx, Subsystem, "Command event", logFields)
	}
}

// SanitizeFields removes sensitive information from log fields.
func SanitizeFields(fields map[string]any) map[string]any {
	sanitized := make(map[string]any, len(fields))

	sensitiveKeys := map[string]bool{
		"password":    true,
		"passwd":      true,
		"secret":      true,
		"token":       true,
		"credential":  true,
		"credentials": true,
	}

	for k, v := range fields {
		if sensitiveKeys[strings.ToLower(k)] {
			sanitized[k] = "[REDACTED]"
			continue
		}
		if str, ok := v.(string); ok && containsSensitivePattern(str) {
			sanitized[k] = "[REDACTED]"
			continue
		}
		sanitized[k] = v
	}

	return sanitized
}

// containsSensitivePattern checks if a string contains patterns that might be sensitive.
func containsSensitivePattern(s string) bool {
	patterns := []string{
		"password=",
		"passwd=",
		"secret=",
		"token=",
	}

	lower := strings.ToLower(s)
	for _, pattern := range patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}
