// Package quizform decodes a quiz edit submission into a typed Form.
//
// Two encodings are accepted. The form-encoded one uses field names to
// carry structure:
//
//	title, description, image, category, visibility   top-level fields
//	Q<n>                                               text of question n
//	Q<n>A<m>                                           text of answer m of question n
//	Q_<n>                                              marks an answer of question n correct
//
// The value of a Q_<n> field names the answer. "#<m>" is an explicit key
// and always means answer m; the edit page sends this form. Any other value
// is matched against answer text first, then as a bare key ("A<m>" or
// "<m>"). It may repeat to mark several answers. Fields are
// classified first and assembled afterwards, so their order never matters.
//
// The JSON encoding is the same structure spelled out:
//
//	{"title": "...", "questions": [{"id": 1, "text": "...",
//	  "answers": [{"text": "...", "correct": true}]}]}
package quizform

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dalemusser/quizhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/quizhub/internal/app/system/limits"
	"github.com/dalemusser/quizhub/internal/domain/models"
)

const (
	MaxQuestions = 200
	MaxAnswers   = 50
)

// Form is a decoded quiz edit. Visibility is nil when the submission did
// not mention it.
type Form struct {
	Title       string
	Description string
	Image       string
	Category    string
	Visibility  *bool
	Questions   []models.Question
}

// FieldError reports a field that could not be placed into the quiz.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("quizform: field %q: %s", e.Field, e.Reason)
}

// ignored are transport fields that ride along with the form.
var ignored = map[string]bool{
	"_method":            true,
	"gorilla.csrf.Token": true,
}

var (
	reQuestion = regexp.MustCompile(`^Q(0|[1-9][0-9]{0,5})$`)
	reAnswer   = regexp.MustCompile(`^Q(0|[1-9][0-9]{0,5})A(0|[1-9][0-9]{0,5})$`)
	reMarker   = regexp.MustCompile(`^Q_(0|[1-9][0-9]{0,5})$`)
	reKey      = regexp.MustCompile(`^A?(0|[1-9][0-9]{0,5})$`)
	reExplicit = regexp.MustCompile(`^#(0|[1-9][0-9]{0,5})$`)
)

// Parse decodes r's body according to its Content-Type.
func Parse(r *http.Request) (*Form, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		return ParseJSON(http.MaxBytesReader(nil, r.Body, limits.MaxQuizBody))
	}
	r.Body = http.MaxBytesReader(nil, r.Body, limits.MaxQuizBody)
	if err := r.ParseForm(); err != nil {
		return nil, &FieldError{Field: "", Reason: "unreadable form body"}
	}
	return ParseValues(r.PostForm)
}

// ParseVisibility maps a visibility field value to is_public.
func ParseVisibility(s string) (public bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public", "true", "on", "1":
		return true, true
	case "private", "false", "off", "0":
		return false, true
	}
	return false, false
}

type bucket struct {
	text    string
	hasText bool
	answers map[int]string
	markers []string
}

// ParseValues decodes the form-encoded field convention.
func ParseValues(v url.Values) (*Form, error) {
	f := &Form{}
	buckets := map[int]*bucket{}
	get := func(n int) *bucket {
		b := buckets[n]
		if b == nil {
			b = &bucket{answers: map[int]string{}}
			buckets[n] = b
		}
		return b
	}

	// Pass 1: classify.
	for name, vals := range v {
		first := ""
		if len(vals) > 0 {
			first = vals[0]
		}
		switch {
		case ignored[name]:
		case name == "title":
			f.Title = strings.TrimSpace(first)
		case name == "description":
			f.Description = htmlsanitize.Sanitize(first)
		case name == "image":
			f.Image = strings.TrimSpace(first)
		case name == "category":
			f.Category = strings.TrimSpace(first)
		case name == "visibility":
			pub, ok := ParseVisibility(first)
			if !ok {
				return nil, &FieldError{Field: name, Reason: "must be public or private"}
			}
			f.Visibility = &pub
		default:
			if m := reQuestion.FindStringSubmatch(name); m != nil {
				b := get(atoi(m[1]))
				b.text, b.hasText = strings.TrimSpace(first), true
			} else if m := reAnswer.FindStringSubmatch(name); m != nil {
				get(atoi(m[1])).answers[atoi(m[2])] = strings.TrimSpace(first)
			} else if m := reMarker.FindStringSubmatch(name); m != nil {
				b := get(atoi(m[1]))
				b.markers = append(b.markers, vals...)
			} else {
				return nil, &FieldError{Field: name, Reason: "unknown field"}
			}
		}
	}

	if len(buckets) > MaxQuestions {
		return nil, &FieldError{Field: "questions", Reason: fmt.Sprintf("at most %d questions allowed", MaxQuestions)}
	}

	// Pass 2: assemble in ID order.
	ids := make([]int, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	f.Questions = make([]models.Question, 0, len(ids))
	for _, id := range ids {
		q, err := assemble(id, buckets[id])
		if err != nil {
			return nil, err
		}
		f.Questions = append(f.Questions, q)
	}
	return f, nil
}

func assemble(id int, b *bucket) (models.Question, error) {
	qname := "Q" + strconv.Itoa(id)
	if !b.hasText {
		return models.Question{}, &FieldError{Field: qname, Reason: "answers or markers given without question text"}
	}
	if len(b.answers) > MaxAnswers {
		return models.Question{}, &FieldError{Field: qname, Reason: fmt.Sprintf("at most %d answers allowed", MaxAnswers)}
	}

	idx := make([]int, 0, len(b.answers))
	for i := range b.answers {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	q := models.Question{ID: id, Text: b.text, Answers: make([]models.Answer, 0, len(idx))}
	pos := map[int]int{}
	for _, i := range idx {
		pos[i] = len(q.Answers)
		q.Answers = append(q.Answers, models.Answer{Index: i, Text: b.answers[i]})
	}

	for _, marker := range b.markers {
		i, ok := resolveMarker(q.Answers, marker)
		if !ok {
			return models.Question{}, &FieldError{
				Field:  "Q_" + strconv.Itoa(id),
				Reason: fmt.Sprintf("%q names no answer of %s", marker, qname),
			}
		}
		q.Answers[pos[i]].IsCorrect = true
	}
	return q, nil
}

// resolveMarker honours an explicit #<m> key, then matches answer text,
// then the bare A<m> / <m> key.
func resolveMarker(answers []models.Answer, marker string) (int, bool) {
	marker = strings.TrimSpace(marker)
	if m := reExplicit.FindStringSubmatch(marker); m != nil {
		return findIndex(answers, atoi(m[1]))
	}
	for _, a := range answers {
		if a.Text == marker {
			return a.Index, true
		}
	}
	if m := reKey.FindStringSubmatch(marker); m != nil {
		return findIndex(answers, atoi(m[1]))
	}
	return 0, false
}

func findIndex(answers []models.Answer, want int) (int, bool) {
	for _, a := range answers {
		if a.Index == want {
			return a.Index, true
		}
	}
	return 0, false
}

type jsonForm struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Category    string         `json:"category"`
	Visibility  *string        `json:"visibility"`
	Questions   []jsonQuestion `json:"questions"`
}

type jsonQuestion struct {
	ID      *int         `json:"id"`
	Text    string       `json:"text"`
	Answers []jsonAnswer `json:"answers"`
}

type jsonAnswer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// ParseJSON decodes the structured schema. Unknown keys are rejected.
// Either every question carries an id or none does; in the latter case
// they are numbered by position starting at 1.
func ParseJSON(r io.Reader) (*Form, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var in jsonForm
	if err := dec.Decode(&in); err != nil {
		return nil, &FieldError{Field: "", Reason: "invalid JSON: " + err.Error()}
	}
	if len(in.Questions) > MaxQuestions {
		return nil, &FieldError{Field: "questions", Reason: fmt.Sprintf("at most %d questions allowed", MaxQuestions)}
	}

	f := &Form{
		Title:       strings.TrimSpace(in.Title),
		Description: htmlsanitize.Sanitize(in.Description),
		Image:       strings.TrimSpace(in.Image),
		Category:    strings.TrimSpace(in.Category),
		Questions:   make([]models.Question, 0, len(in.Questions)),
	}
	if in.Visibility != nil {
		pub, ok := ParseVisibility(*in.Visibility)
		if !ok {
			return nil, &FieldError{Field: "visibility", Reason: "must be public or private"}
		}
		f.Visibility = &pub
	}

	explicit := false
	for _, jq := range in.Questions {
		if jq.ID != nil {
			explicit = true
			break
		}
	}

	seen := map[int]bool{}
	for i, jq := range in.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		id := i + 1
		if explicit {
			if jq.ID == nil {
				return nil, &FieldError{Field: field, Reason: "id required when other questions set one"}
			}
			id = *jq.ID
		}
		if id < 0 || seen[id] {
			return nil, &FieldError{Field: field, Reason: fmt.Sprintf("duplicate or invalid id %d", id)}
		}
		seen[id] = true
		if len(jq.Answers) > MaxAnswers {
			return nil, &FieldError{Field: field, Reason: fmt.Sprintf("at most %d answers allowed", MaxAnswers)}
		}

		q := models.Question{ID: id, Text: strings.TrimSpace(jq.Text), Answers: make([]models.Answer, 0, len(jq.Answers))}
		for ai, ja := range jq.Answers {
			q.Answers = append(q.Answers, models.Answer{Index: ai, Text: strings.TrimSpace(ja.Text), IsCorrect: ja.Correct})
		}
		f.Questions = append(f.Questions, q)
	}

	sort.SliceStable(f.Questions, func(a, b int) bool { return f.Questions[a].ID < f.Questions[b].ID })
	return f, nil
}

// atoi is only called on regexp-validated digit runs.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
