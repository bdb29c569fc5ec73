package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// TextExtractor 纯文本抽取器
// 按固定顺序尝试严格解码，全部失败后退化为有损解码。
// 顺序优先保真（严格解码）再保全（有损替换），且常见编码在前，
// 避免例如 UTF-16 字节流被 Latin-1 先行误解码。
type TextExtractor struct {
	decoders []textDecoder
}

type textDecoder struct {
	name   string
	decode func(data []byte) (string, bool)
}

// NewTextExtractor 创建文本抽取器
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{
		decoders: []textDecoder{
			{name: "utf-8", decode: decodeUTF8},
			{name: "latin-1", decode: decodeCharmap(charmap.ISO8859_1)},
			{name: "cp1252", decode: decodeCharmap(charmap.Windows1252)},
			{name: "iso-8859-1", decode: decodeCharmap(charmap.ISO8859_1)},
			{name: "utf-16", decode: decodeUTF16},
		},
	}
}

// Extract 解码字节流为字符串
// Latin-1 对任意字节序列都可解码，链条必然终止，因此不返回错误。
func (e *TextExtractor) Extract(data []byte) (string, error) {
	for _, d := range e.decoders {
		if text, ok := d.decode(data); ok {
			return text, nil
		}
	}

	// 兜底：有损 UTF-8 解码，未知字节替换为 U+FFFD
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

// decodeUTF8 严格 UTF-8 解码
func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// decodeCharmap 构造单字节字符集的严格解码函数
// x/text 的 charmap 解码器对未定义字节输出 U+FFFD 而非报错，
// 据此判断严格解码是否失败。
func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, bool) {
	return func(data []byte) (string, bool) {
		out, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		text := string(out)
		if strings.ContainsRune(text, utf8.RuneError) {
			return "", false
		}
		return text, true
	}
}

// decodeUTF16 严格 UTF-16 解码（按 BOM 判断字节序，缺省小端）
func decodeUTF16(data []byte) (string, bool) {
	if len(data)%2 != 0 {
		return "", false
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	out, err := decodeStrict(dec, data)
	if err != nil {
		return "", false
	}
	if strings.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return out, true
}

func decodeStrict(dec *encoding.Decoder, data []byte) (string, error) {
	out, err := dec.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
