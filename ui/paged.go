package ui

// AnswerSource lazily produces answers for a paged question. An empty
// string ends the current page; a page that starts empty means there are no
// more answers.
type AnswerSource interface {
	NextAnswer() string
}

// AnswerFunc adapts a function to AnswerSource.
type AnswerFunc func() string

func (f AnswerFunc) NextAnswer() string { return f() }

// Answers returns a source that yields items in order and then only "".
func Answers(items ...string) AnswerSource {
	i := 0
	return AnswerFunc(func() string {
		if i >= len(items) {
			return ""
		}
		i++
		return items[i-1]
	})
}

// AskPaged shows src pageSize answers at a time using the single-choice
// question without wrapping. Moving past the last answer opens the next page
// (the first one again once src runs dry); moving before the first answer of
// the first page cancels with "".
func AskPaged(u UserInterface, prompt string, src AnswerSource, pageSize int) string {
	if pageSize < 1 {
		pageSize = 1
	}

	var pages [][]string
	exhausted := false
	lastFull := false
	page := 0

	for {
		for page >= len(pages) && !exhausted {
			p := readPage(src, pageSize, lastFull)
			if len(p) == 0 {
				exhausted = true
				break
			}
			lastFull = len(p) == pageSize
			pages = append(pages, p)
		}
		if len(pages) == 0 {
			return ""
		}
		if page >= len(pages) {
			page = 0
		}

		idx := u.AskMultipleChoiceQuestion(prompt, pages[page], 0, false)
		switch {
		case idx == NextPage:
			page++
		case idx == GoBack:
			if page == 0 {
				return ""
			}
			page--
		case idx >= 0 && idx < len(pages[page]):
			u.Device().Log.Debug().Int("page", page).Int("index", idx).Msg("ui: paged answer")
			return pages[page][idx]
		default:
			return ""
		}
	}
}

// readPage collects up to n answers. After a full page the source may still
// emit the end-of-page marker, so one leading "" is skipped.
func readPage(src AnswerSource, n int, afterFull bool) []string {
	var p []string
	for len(p) < n {
		a := src.NextAnswer()
		if a == "" {
			if afterFull && len(p) == 0 {
				afterFull = false
				continue
			}
			break
		}
		p = append(p, a)
	}
	return p
}
