package lifecycle

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "equipment-tracker/pkg/errors"
)

// ChecklistItem - элемент шаблона чек-листа типа оборудования.
type ChecklistItem struct {
	Label string `json:"label" validate:"required"`
}

type AnswerStatus string

const (
	AnswerUnset AnswerStatus = ""
	AnswerPass  AnswerStatus = "pass"
	AnswerFail  AnswerStatus = "fail"
)

// UnmarshalJSON принимает и строки, и старый формат клиента true/false/null.
func (s *AnswerStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		*s = AnswerUnset
		return nil
	case "true":
		*s = AnswerPass
		return nil
	case "false":
		*s = AnswerFail
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("статус ответа: %w", err)
	}
	switch AnswerStatus(raw) {
	case AnswerUnset, AnswerPass, AnswerFail:
		*s = AnswerStatus(raw)
		return nil
	case "unset":
		*s = AnswerUnset
		return nil
	}
	return fmt.Errorf("статус ответа: неизвестное значение %q", raw)
}

// ChecklistAnswer - копия метки на момент отправки и ответ.
type ChecklistAnswer struct {
	Label  string       `json:"label" validate:"required"`
	Status AnswerStatus `json:"status" validate:"answer_status"`
}

type InspectionResult string

const (
	ResultPass InspectionResult = "pass"
	ResultFail InspectionResult = "fail"
)

// NewAnswerSheet - пустой лист ответов по шаблону типа.
func NewAnswerSheet(schema []ChecklistItem) []ChecklistAnswer {
	answers := make([]ChecklistAnswer, 0, len(schema))
	for _, item := range schema {
		answers = append(answers, ChecklistAnswer{Label: item.Label, Status: AnswerUnset})
	}
	return answers
}

// Evaluate - единственный источник результата инспекции.
// Незаполненный ответ запрещает оценку целиком.
func Evaluate(answers []ChecklistAnswer) (InspectionResult, error) {
	var unanswered []string
	failed := false
	for _, a := range answers {
		switch a.Status {
		case AnswerPass:
		case AnswerFail:
			failed = true
		default:
			unanswered = append(unanswered, a.Label)
		}
	}

	if len(unanswered) > 0 {
		return "", apperrors.NewValidationError(apperrors.ErrIncompleteChecklist.Message, unanswered...)
	}
	if failed {
		return ResultFail, nil
	}
	return ResultPass, nil
}
