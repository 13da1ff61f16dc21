package retrieval

import (
	"fmt"
	"strings"
)

// Split cuts a source file into paragraph passages. Ids are "<source>#<n>".
func Split(source, text string) []Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var docs []Document
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		docs = append(docs, Document{
			ID:     fmt.Sprintf("%s#%d", source, len(docs)),
			Text:   para,
			Source: source,
		})
	}
	return docs
}
