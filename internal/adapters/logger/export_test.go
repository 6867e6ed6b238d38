// export_test.go exports private functions for white-box testing.
package logger

// Exported error formatting helpers.
var (
	CollectErrorMessages = func(err error) []string {
		entries := collectErrorEntries(err)
		msgs := make([]string, len(entries))
		for i, e := range entries {
			msgs[i] = e.message
		}
		return msgs
	}
	FormatError = func(err error) string {
		return formatErrorEntries(collectErrorEntries(err))
	}
)
