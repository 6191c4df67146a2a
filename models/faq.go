package models

import "time"

const (
	FAQCategoryGeneral = "general"
	FAQCategoryVisa    = "visa"
	FAQCategoryRent    = "rent"
)

type FAQ struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	QuestionRu string    `gorm:"column:question_ru;type:text;not null" json:"questionRu"`
	QuestionEn string    `gorm:"column:question_en;type:text" json:"questionEn"`
	QuestionVi string    `gorm:"column:question_vi;type:text" json:"questionVi"`
	AnswerRu   string    `gorm:"column:answer_ru;type:text;not null" json:"answerRu"`
	AnswerEn   string    `gorm:"column:answer_en;type:text" json:"answerEn"`
	AnswerVi   string    `gorm:"column:answer_vi;type:text" json:"answerVi"`
	Category   string    `gorm:"column:category;size:20;not null;default:'general';index" json:"category"`
	SortOrder  int       `gorm:"column:sort_order;not null;default:0" json:"sortOrder"`
	IsActive   bool      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (FAQ) TableName() string {
	return "faqs"
}

func (f *FAQ) ApplyDefaults() {
	f.QuestionEn = Fallback(f.QuestionEn, f.QuestionRu)
	f.QuestionVi = Fallback(f.QuestionVi, f.QuestionRu)
	f.AnswerEn = Fallback(f.AnswerEn, f.AnswerRu)
	f.AnswerVi = Fallback(f.AnswerVi, f.AnswerRu)
	if f.Category == "" {
		f.Category = FAQCategoryGeneral
	}
}

func ValidFAQCategory(c string) bool {
	switch c {
	case FAQCategoryGeneral, FAQCategoryVisa, FAQCategoryRent:
		return true
	}
	return false
}
