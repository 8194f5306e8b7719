package layout

import (
	"strings"
	"unicode/utf8"
)

var breakReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Wrap 使用贪心算法将文本折成不超过 maxWidth 像素宽的显示行。
//
// 先按显式换行拆成段落，段落内按单个空格分词逐词累加；单词本身超宽时退化为按字符切分。
// 唯一允许超宽的行是无法再拆分的单个字符。空白段落保留为一个空行。
// 文本为空白、maxWidth <= 0 或字体不可用时返回空结果。
func Wrap(text string, face Face, maxWidth float64) []string {
	if strings.TrimSpace(text) == "" || maxWidth <= 0 || nominalSize(face) <= 0 {
		return nil
	}
	var lines []string
	for _, paragraph := range strings.Split(breakReplacer.Replace(text), "\n") {
		lines = append(lines, wrapParagraph(paragraph, face, maxWidth)...)
	}
	return lines
}

func wrapParagraph(paragraph string, face Face, maxWidth float64) []string {
	if strings.TrimSpace(paragraph) == "" {
		return []string{""}
	}
	var lines []string
	current := ""
	for _, word := range strings.Split(paragraph, " ") {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if fits(face, candidate, maxWidth) {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		if fits(face, word, maxWidth) {
			current = word
			continue
		}
		var full []string
		full, current = splitWord(word, face, maxWidth)
		lines = append(lines, full...)
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// splitWord 逐字符累加超宽单词，返回已满的行与剩余缓冲。
// 按字节偏移切分，非法 UTF-8 字节原样保留。
// 缓冲非空时才会换行，因此单个超宽字符也会独占一行而不会死循环。
func splitWord(word string, face Face, maxWidth float64) (full []string, rest string) {
	start := 0
	for i := 0; i < len(word); {
		_, size := utf8.DecodeRuneInString(word[i:])
		end := i + size
		if i > start && !fits(face, word[start:end], maxWidth) {
			full = append(full, word[start:i])
			start = i
		}
		i = end
	}
	return full, word[start:]
}
