package errors

// DebugDump flattens an error chain for structured logging.
type DebugDump struct {
	TopMessage string
	Code       string
	Chain      []string
}

// Dump walks the unwrap chain so log entries can show every layer of context.
func Dump(err error) DebugDump {
	dump := DebugDump{}
	if err == nil {
		return dump
	}

	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = string(typed.Code())
	}

	for current := err; current != nil; {
		dump.Chain = append(dump.Chain, current.Error())
		unwrapper, ok := current.(interface{ Unwrap() error })
		if !ok {
			break
		}
		current = unwrapper.Unwrap()
	}
	return dump
}
