package billing

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed errorcodes.yaml
var errorCodesYAML []byte

var (
	errorCodeTable map[int]string
	errorCodesOnce sync.Once
)

func loadErrorCodes() {
	errorCodesOnce.Do(func() {
		table := make(map[int]string)
		if err := yaml.Unmarshal(errorCodesYAML, &table); err != nil {
			// The table is embedded at build time; failing to parse it is a
			// programming error, not a runtime condition.
			panic(fmt.Sprintf("billing: invalid embedded error code table: %v", err))
		}
		errorCodeTable = table
	})
}

// KnownErrorCode reports whether the code has a table entry.
func KnownErrorCode(code int) bool {
	loadErrorCodes()
	_, ok := errorCodeTable[code]
	return ok
}

// ErrorCodeDescription translates a gateway error code into a human
// readable failure reason. Unknown codes never get dropped silently.
func ErrorCodeDescription(code int) string {
	loadErrorCodes()
	if desc, ok := errorCodeTable[code]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown gateway error (code %d)", code)
}
