package server

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/alnah/go-mdconv"
)

// uiText holds the translated strings of both screens.
type uiText struct {
	AppTitle      string
	AppName       string
	Heading       string
	UploadTitle   string
	UploadHint    string
	ClickToUpload string
	Remove        string
	Preview       string
	Back          string
	ExportHTML    string
	PrintPDF      string
	PreviewLabel  string
}

var uiTexts = map[string]uiText{
	"en": {
		AppTitle:      "MDConv - Markdown preview and export",
		AppName:       "Markdown preview and export",
		Heading:       "MDConv",
		UploadTitle:   "Upload file",
		UploadHint:    "Supported formats: .md, .markdown, .txt. Up to 10MB.",
		ClickToUpload: "Click or drop a file to upload",
		Remove:        "Remove file",
		Preview:       "Preview",
		Back:          "Back",
		ExportHTML:    "Export HTML",
		PrintPDF:      "Print PDF",
		PreviewLabel:  "Preview",
	},
	"zh-CN": {
		AppTitle:      "MDConv - Markdown 预览与导出",
		AppName:       "Markdown 预览导出",
		Heading:       "MDConv",
		UploadTitle:   "上传文件",
		UploadHint:    "支持格式：.md, .markdown, .txt。文件大小不超过 10MB。",
		ClickToUpload: "点击上传",
		Remove:        "移除文件",
		Preview:       "预览",
		Back:          "返回",
		ExportHTML:    "导出 HTML",
		PrintPDF:      "打印 PDF",
		PreviewLabel:  "预览",
	},
}

// locale picks the request locale from Accept-Language, then the server
// default.
func (s *Server) locale(c *gin.Context) language.Tag {
	return mdconv.MatchLocale(c.GetHeader("Accept-Language"), s.defaultLang)
}

func textFor(tag language.Tag) uiText {
	if t, ok := uiTexts[tag.String()]; ok {
		return t
	}
	return uiTexts["en"]
}
