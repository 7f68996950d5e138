// Package ingest 实现文档入库流水线：抽取、分章、分块、向量化
package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// pdfMagic PDF 文件头
var pdfMagic = []byte("%PDF")

// ExtractText 从原始字节中抽取纯文本
// PDF 按文件头嗅探，其余按 DOCX 解析；结构化解析失败时退化为
// UTF-8 字节清洗，绝不向上抛错，完全不可读时返回空串。
func ExtractText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	if bytes.HasPrefix(raw, pdfMagic) {
		if text, err := extractPDF(raw); err == nil {
			return text
		}
		return salvageUTF8(raw)
	}

	if text, err := extractDOCX(raw); err == nil {
		return text
	}
	return salvageUTF8(raw)
}

// extractPDF 逐页抽取 PDF 文本，页间以空行分隔
// 单页抽取失败记为空页，不中断整篇。
func extractPDF(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n\n"), nil
}

// docxDocument word/document.xml 中需要的最小结构
type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []struct {
		Texts []string `xml:"t"`
	} `xml:"r"`
}

// extractDOCX 从 DOCX 容器中抽取段落文本
func extractDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", io.ErrUnexpectedEOF
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	var doc docxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", err
	}

	var paragraphs []string
	for _, p := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
		}
		paragraphs = append(paragraphs, sb.String())
	}
	return strings.Join(paragraphs, "\n"), nil
}

// salvageUTF8 丢弃非法字节序列与 NUL，保留可读部分
func salvageUTF8(raw []byte) string {
	var sb strings.Builder
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r != utf8.RuneError || size > 1 {
			if r != 0 {
				sb.WriteRune(r)
			}
		}
		raw = raw[size:]
	}
	return sb.String()
}
