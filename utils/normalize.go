package utils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeSearch đưa chuỗi tiếng Việt về dạng so khớp: bỏ dấu,
// gộp khoảng trắng, viết thường. Hàm này phải cho kết quả ổn định
// (chạy lại trên kết quả không đổi gì) vì cả cột lưu lẫn chuỗi truy
// vấn đều đi qua nó.
func NormalizeSearch(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	// đ/Đ không phải ký tự có dấu tổ hợp nên phải thay riêng
	out = strings.ReplaceAll(out, "đ", "d")
	out = strings.ReplaceAll(out, "Đ", "D")
	out = strings.Join(strings.Fields(out), " ")
	return strings.ToLower(out)
}

// ParseAmountShorthand đọc số tiền dạng viết tắt: "5k" = 5000,
// "2m" = 2000000, chấp nhận dấu phẩy và khoảng trắng ("1,500k").
// Trả về ok=false khi chuỗi không đọc được; caller bỏ qua điều kiện
// lọc theo số tiền thay vì báo lỗi.
func ParseAmountShorthand(s string) (int64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "k"):
		mult = 1_000
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult = 1_000_000
		s = strings.TrimSuffix(s, "m")
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return int64(n * float64(mult)), true
}
