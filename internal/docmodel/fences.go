package docmodel

// OutsideInlineCode reports whether byte offset pos of line is outside a `code` span.
func OutsideInlineCode(line string, pos int) bool {
	backtickCount := 0
	for i := 0; i < pos && i < len(line); i++ {
		if line[i] == '`' {
			backtickCount++
		}
	}
	return backtickCount%2 == 0
}
