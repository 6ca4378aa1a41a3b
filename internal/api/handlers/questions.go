package handlers

import "net/http"

// QuestionsHandler serves the suggested demo questions for the frontend's
// question picker.
type QuestionsHandler struct {
	questions []string
}

func NewQuestionsHandler(questions []string) *QuestionsHandler {
	if questions == nil {
		questions = []string{}
	}
	return &QuestionsHandler{questions: questions}
}

type questionsResponse struct {
	Questions []string `json:"questions"`
}

func (h *QuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, questionsResponse{Questions: h.questions})
}
