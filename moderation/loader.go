package moderation

import (
	"bufio"
	"bytes"
	"io/fs"
	"strings"

	"chat-room/errors"
)

// WordList is the parsed result of the embedded dictionaries, with the
// language tags kept for startup logging.
type WordList struct {
	Words     []string
	Languages []string
}

// LoadWords reads every .txt file under dir in fsys, one censored word
// per line, deduplicated across languages. The file name doubles as the
// language tag ("en.txt" -> "en").
func LoadWords(fsys fs.FS, dir string) (*WordList, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	unique := make(map[string]struct{})
	var languages []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(fsys, dir+"/"+entry.Name())
		if err != nil {
			return nil, err
		}

		// A scanner copes with both \n and \r\n line endings.
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word != "" {
				unique[word] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(unique) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for word := range unique {
		words = append(words, word)
	}
	return &WordList{Words: words, Languages: languages}, nil
}
