package mirror

import "strings"

// NormalizeClock 把人工填写的 "H:M[:S]" 归一化为 "HH:MM:SS"
// 没有冒号分隔（比如 "930"）视为无法解析，归一化为空串而不是报错
func NormalizeClock(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}

	parts := strings.Split(t, ":")
	if len(parts) == 1 {
		return ""
	}

	hh := pad2(strings.TrimSpace(parts[0]))
	mm := "00"
	ss := "00"
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		mm = pad2(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		ss = pad2(strings.TrimSpace(parts[2]))
	}

	return hh + ":" + mm + ":" + ss
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
