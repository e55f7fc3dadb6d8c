package core

import (
	"fmt"
	"strings"
)

const (
	// CategoryPrefix starts the first line of a model reply
	CategoryPrefix = "CATEGORIA:"
	// SuggestedResponsePrefix starts the second line of a model reply
	SuggestedResponsePrefix = "RESPOSTA_SUGERIDA:"
)

// DefaultPromptTemplate is the instruction sent to the model. The single %s
// receives the email content.
const DefaultPromptTemplate = `Você vai analisar e-mails recebidos pela equipe de atendimento.
Esses e-mails podem ser mensagens solicitando um status atual sobre uma requisição em andamento,
compartilhando algum arquivo ou até mesmo mensagens improdutivas, como desejo de feliz natal ou perguntas não relevantes.

Objetivo:
Classificar o e-mail em uma das categorias abaixo.
Sugerir uma resposta automática adequada à categoria.

Categorias de Classificação:
Produtivo: e-mails que requerem uma ação ou resposta específica (ex.: solicitações de suporte técnico, atualização sobre casos em aberto, dúvidas sobre o sistema).
Improdutivo: e-mails que não necessitam de uma ação imediata (ex.: mensagens de felicitações, agradecimentos, mensagens não relevantes).

Responda exatamente em duas linhas, no formato abaixo, sem nada além dele:
` + CategoryPrefix + ` [Produtivo ou Improdutivo]
` + SuggestedResponsePrefix + ` [Resposta automática adequada para a categoria, em uma única linha]
---
E-mail para análise:
"%s"
`

// ValidatePromptTemplate checks that a template has exactly one substitution
// point and no other formatting verbs.
func ValidatePromptTemplate(template string) error {
	if strings.TrimSpace(template) == "" {
		return fmt.Errorf("prompt template is empty")
	}
	stripped := strings.ReplaceAll(template, "%%", "")
	if n := strings.Count(stripped, "%"); n != 1 || strings.Count(stripped, "%s") != 1 {
		return fmt.Errorf("prompt template must contain exactly one %%s and no other verbs")
	}
	return nil
}

// BuildPrompt substitutes the email content into the template
func BuildPrompt(template string, content EmailContent) string {
	return fmt.Sprintf(template, string(content))
}
