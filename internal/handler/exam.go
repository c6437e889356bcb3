package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dangwonlab/dangwon/internal/exam"
	"github.com/dangwonlab/dangwon/internal/model"
)

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req exam.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}

	teacher := model.UserFromContext(r.Context())
	result, err := h.exams.Generate(r.Context(), teacher.ID, req)
	if err != nil {
		h.failFromErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"code":    result.Code,
		"examId":  result.ExamID,
	})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}

	student := model.UserFromContext(r.Context())
	result, err := h.exams.Verify(student.ID, req.Code)
	if err != nil {
		h.failFromErr(w, r, err)
		return
	}

	resp := map[string]any{
		"success": true,
		"valid":   result.Valid,
	}
	if result.AlreadyAttempted {
		resp["alreadyAttempted"] = true
	}
	if result.Exam != nil {
		resp["examData"] = result.Exam
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}

	student := model.UserFromContext(r.Context())
	result, err := h.exams.Start(student.ID, req.Code)
	if err != nil {
		h.failFromErr(w, r, err)
		return
	}

	resp := map[string]any{"success": true}
	if result.AlreadyAttempted {
		resp["alreadyAttempted"] = true
	} else {
		resp["attemptId"] = result.AttemptID
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	questions, err := h.exams.Questions(code)
	if err != nil {
		h.failFromErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"questions": questions,
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req struct {
		Answers []exam.SubmittedAnswer `json:"answers"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}

	student := model.UserFromContext(r.Context())
	result, err := h.exams.Submit(student.ID, code, req.Answers)
	if err != nil {
		h.failFromErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"results":      result.Results,
		"correctCount": result.CorrectCount,
		"total":        result.Total,
	})
}

func (h *Handler) handleRecheck(w http.ResponseWriter, r *http.Request) {
	solveID, err := parseID(chi.URLParam(r, "solveID"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}

	var req struct {
		UserInput string `json:"userInput"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "BadRequest")
		return
	}

	student := model.UserFromContext(r.Context())
	result, err := h.exams.Recheck(student.ID, solveID, req.UserInput)
	if err != nil {
		h.failFromErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"correct": result.Correct,
	})
}

// handleResults returns the full export view of an exam for its teacher:
// questions with answers, every graded solve, and the attempt roster.
func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !exam.ValidCode(code) {
		h.fail(w, r, http.StatusBadRequest, "ErrBadCode")
		return
	}

	export, err := h.store.ExportExam(code)
	if err != nil {
		h.fail(w, r, http.StatusNotFound, "ErrExamNotFound")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"exam":    export,
	})
}
