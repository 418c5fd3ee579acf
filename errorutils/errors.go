package errorutils

// Must returns value if err is nil and panics otherwise. Only for startup code where an error
// means the program can't run at all.
func Must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}

	return value
}
