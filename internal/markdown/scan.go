package markdown

import "strings"

// ScanInlineLinks finds inline links line by line, skipping fenced and indented
// code blocks, inline code spans and images. Destinations wrapped in angle brackets
// are unwrapped and link titles are dropped.
func ScanInlineLinks(body string) []InlineLink {
	lines := strings.Split(body, "\n")
	skip := CodeLines(lines)

	out := make([]InlineLink, 0)
	for i, line := range lines {
		if skip[i] {
			continue
		}
		line = strings.TrimSuffix(line, "\r")
		out = append(out, scanLine(line, i)...)
	}
	return out
}

// CodeLines marks the lines that belong to fenced (``` or ~~~) or indented code
// blocks, fence lines included.
func CodeLines(lines []string) []bool {
	skippable := make([]bool, len(lines))
	inCodeBlock := false
	activeFence := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
			skippable[i] = true
			continue
		}
		if strings.HasPrefix(trimmed, "~~~") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
			skippable[i] = true
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			skippable[i] = true
		}
	}
	return skippable
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

func scanLine(line string, lineNo int) []InlineLink {
	inCode := codeSpanMask(line)

	var links []InlineLink
	for i := 0; i+1 < len(line); i++ {
		if line[i] != ']' || line[i+1] != '(' || inCode[i] {
			continue
		}

		start := findLinkTextStart(line, i)
		if start < 0 || inCode[start] {
			continue
		}
		end := strings.IndexByte(line[i+2:], ')')
		if end < 0 {
			continue
		}
		end += i + 2

		links = append(links, InlineLink{
			Text:        line[start+1 : i],
			Destination: cleanDestination(line[i+2 : end]),
			Raw:         line[start : end+1],
			Line:        lineNo,
			StartColumn: start,
			EndColumn:   end + 1,
		})
		i = end
	}
	return links
}

// findLinkTextStart returns the '[' opening the link text that closes at
// closeBracketPos, or -1 for images and unmatched brackets.
func findLinkTextStart(line string, closeBracketPos int) int {
	for j := closeBracketPos - 1; j >= 0; j-- {
		switch line[j] {
		case ']':
			return -1
		case '[':
			if j > 0 && line[j-1] == '!' {
				return -1
			}
			return j
		}
	}
	return -1
}

func cleanDestination(dest string) string {
	dest = strings.TrimSpace(dest)
	if strings.HasPrefix(dest, "<") {
		if end := strings.IndexByte(dest, '>'); end > 0 {
			return dest[1:end]
		}
	}
	if before, _, ok := strings.Cut(dest, " \""); ok {
		return before
	}
	if before, _, ok := strings.Cut(dest, " '"); ok {
		return before
	}
	return dest
}

// codeSpanMask marks the bytes of line that sit inside inline code spans,
// delimiters included. Unclosed backtick runs are literal text.
func codeSpanMask(line string) []bool {
	mask := make([]bool, len(line))
	for i := 0; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}

		run := 1
		for i+run < len(line) && line[i+run] == '`' {
			run++
		}

		marker := strings.Repeat("`", run)
		closeRel := strings.Index(line[i+run:], marker)
		if closeRel == -1 {
			i += run
			continue
		}

		end := i + run + closeRel + run
		for j := i; j < end; j++ {
			mask[j] = true
		}
		i = end
	}
	return mask
}
