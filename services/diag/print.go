package diag

// printLine writes space-separated values with the builtin println, which
// is the only console available on MCU builds without fmt.
func printLine(a ...any) {
	for i, v := range a {
		if i > 0 {
			print(" ")
		}
		switch x := v.(type) {
		case string:
			print(x)
		case int:
			print(x)
		case uint32:
			print(x)
		case uint64:
			print(x)
		default:
			print("?")
		}
	}
	println()
}
