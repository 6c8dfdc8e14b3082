package validate

import (
	"encoding/json"
	"strings"
)

// StripLineComments removes // comments from each line. A // starts a comment only
// when an even number of double quotes precede it on the line, so URLs inside string
// literals are kept.
func StripLineComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if idx := commentStart(line); idx != -1 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

func commentStart(line string) int {
	offset := 0
	for {
		idx := strings.Index(line[offset:], "//")
		if idx == -1 {
			return -1
		}
		idx += offset
		if strings.Count(line[:idx], `"`)%2 == 0 {
			return idx
		}
		offset = idx + 2
	}
}

// ParseJSONC parses JSON that may carry // line comments.
func ParseJSONC(text string) (any, error) {
	var parsed any
	if err := json.Unmarshal([]byte(StripLineComments(text)), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}
