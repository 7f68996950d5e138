package rag

import (
	"fmt"
	"strings"
)

// systemPrompt 问答系统提示词
const systemPrompt = `你是一个严谨的文献问答助手。请仅依据下方提供的资料内容回答用户问题：
- 回答必须忠于资料，不得编造资料中不存在的内容；
- 资料不足以回答时，如实说明无法从资料中找到答案；
- 回答使用与用户提问相同的语言，保持简洁、准确。`

// BuildMessages 组装对话消息内容
// 返回 system 内容与 user 内容，历史对话拼接在用户侧。
func BuildMessages(question, contextText, memoryContext string) (string, string) {
	var sb strings.Builder

	if memoryContext != "" {
		sb.WriteString("以下是本会话此前的对话记录：\n")
		sb.WriteString(memoryContext)
		sb.WriteString("\n\n")
	}

	sb.WriteString("资料内容：\n")
	if contextText != "" {
		sb.WriteString(contextText)
	} else {
		sb.WriteString("（无）")
	}
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("用户问题：%s", question))

	return systemPrompt, sb.String()
}
