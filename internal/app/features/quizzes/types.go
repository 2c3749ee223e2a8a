package quizzes

import (
	"html/template"

	"github.com/dalemusser/quizhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/quizhub/internal/app/system/viewdata"
	"github.com/dalemusser/quizhub/internal/domain/models"
)

type quizRow struct {
	ID            string
	Title         string
	Category      string
	Visibility    string
	QuestionCount int
}

type quizView struct {
	ID          string
	Title       string
	Description template.HTML
	RawDesc     string
	Image       string
	Category    string
	IsPublic    bool
	Visibility  string
	Questions   []models.Question
}

type listData struct {
	viewdata.BaseVM
	OwnerID string
	Quizzes []quizRow
}

type quizData struct {
	viewdata.BaseVM
	OwnerID string
	Quiz    quizView
}

type newData struct {
	viewdata.BaseVM
	OwnerID string
}

func toRow(q models.Quiz) quizRow {
	return quizRow{
		ID:            q.ID.Hex(),
		Title:         q.Title,
		Category:      q.Category,
		Visibility:    q.Visibility(),
		QuestionCount: len(q.Questions),
	}
}

// toView re-sanitizes the description on the way out so records written
// by other tools render safely too.
func toView(q *models.Quiz) quizView {
	return quizView{
		ID:          q.ID.Hex(),
		Title:       q.Title,
		Description: htmlsanitize.SanitizeToHTML(q.Description),
		RawDesc:     q.Description,
		Image:       q.Image,
		Category:    q.Category,
		IsPublic:    q.IsPublic,
		Visibility:  q.Visibility(),
		Questions:   q.Questions,
	}
}
