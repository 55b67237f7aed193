package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/course-tracker/internal/catalog"
	"github.com/Clark-Hu/course-tracker/internal/domain"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ratingRequest struct {
	Rating *int `json:"rating"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type courseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedAt   string `json:"created_at"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	ImageURL    string `json:"imageUrl"`
}

type courseListResponse struct {
	Items []courseResponse `json:"items"`
}

type enrollmentResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	CourseID   string          `json:"courseId"`
	EnrolledAt time.Time       `json:"enrolledAt"`
	UserRating *int            `json:"userRating"`
	Course     *courseResponse `json:"course,omitempty"`
}

type enrollmentListResponse struct {
	Items []enrollmentResponse `json:"items"`
}

type ratingResponse struct {
	CourseID     string `json:"courseId"`
	UserID       string `json:"userId"`
	Rating       int    `json:"rating"`
	CourseRating int    `json:"courseRating"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	user, err := s.app.Identity.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.respondDomainError(w, "register", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email and password are required")
		return
	}

	user, err := s.app.Identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondDomainError(w, "login", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Identity.EndSession(r.Context()); err != nil {
		s.respondDomainError(w, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok, err := s.app.Identity.CurrentIdentity(r.Context())
	if err != nil {
		s.respondDomainError(w, "current identity", err)
		return
	}
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No active session")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	filter, err := buildCourseFilter(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	courses, err := s.app.Catalog.SearchCourses(r.Context(), filter)
	if err != nil {
		s.respondDomainError(w, "list courses", err)
		return
	}

	items := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, toCourseResponse(course))
	}
	s.respondJSON(w, http.StatusOK, courseListResponse{Items: items})
}

func buildCourseFilter(query url.Values) (catalog.Filter, error) {
	var filter catalog.Filter
	filter.Query = strings.TrimSpace(query.Get("q"))
	order, err := catalog.ParseSortOrder(query.Get("sort"))
	if err != nil {
		return filter, fmt.Errorf("invalid sort value")
	}
	filter.Sort = order
	return filter, nil
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := decodeIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	course, ok, err := s.app.Catalog.GetCourse(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, "get course", err)
		return
	}
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	s.respondJSON(w, http.StatusOK, toCourseResponse(course))
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	id, err := decodeIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	enrollment, err := s.app.Ledger.Enroll(r.Context(), actor.ID, id)
	if err != nil {
		s.respondDomainError(w, "enroll", err)
		return
	}

	w.Header().Set("Location", "/me/enrollments")
	s.respondJSON(w, http.StatusCreated, toEnrollmentResponse(enrollment, nil))
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	id, err := decodeIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Rating == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "rating is required")
		return
	}

	aggregate, err := s.app.Ledger.SubmitRating(r.Context(), actor.ID, id, *req.Rating)
	if err != nil {
		s.respondDomainError(w, "submit rating", err)
		return
	}
	s.respondJSON(w, http.StatusOK, ratingResponse{
		CourseID:     id,
		UserID:       actor.ID,
		Rating:       *req.Rating,
		CourseRating: aggregate,
	})
}

func (s *Server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	filter := catalog.Filter{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
	enrolled, err := s.app.Ledger.SearchEnrollments(r.Context(), actor.ID, filter)
	if err != nil {
		s.respondDomainError(w, "list enrollments", err)
		return
	}

	items := make([]enrollmentResponse, 0, len(enrolled))
	for _, item := range enrolled {
		course := toCourseResponse(item.Course)
		items = append(items, toEnrollmentResponse(item.Enrollment, &course))
	}
	s.respondJSON(w, http.StatusOK, enrollmentListResponse{Items: items})
}

// requireActor resolves the current session identity or writes 401.
func (s *Server) requireActor(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	user, ok, err := s.app.Identity.CurrentIdentity(r.Context())
	if err != nil {
		s.respondDomainError(w, "current identity", err)
		return domain.User{}, false
	}
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
		return domain.User{}, false
	}
	return user, true
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// respondDomainError maps tracker outcomes onto status codes; anything
// unrecognised is logged and reported as an internal error.
func (s *Server) respondDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateHandle):
		s.respondError(w, http.StatusConflict, "DUPLICATE_HANDLE", "User with this email already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		s.respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, domain.ErrUnknownCourse):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, domain.ErrAlreadyEnrolled):
		s.respondError(w, http.StatusConflict, "ALREADY_ENROLLED", "You're already enrolled in this course")
	case errors.Is(err, domain.ErrNotEnrolled):
		s.respondError(w, http.StatusForbidden, "NOT_ENROLLED", "You must be enrolled in this course to rate it")
	case errors.Is(err, domain.ErrInvalidRating):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "rating must be an integer between 0 and 100")
	case errors.Is(err, domain.ErrInvalidInput):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name, email and password are required")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Request cancelled")
	default:
		s.logger.Printf("%s error: %v", op, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", fmt.Sprintf("Failed to %s", op))
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

func toCourseResponse(course domain.Course) courseResponse {
	resp := courseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Rating:      course.Rating,
		Description: course.Description,
		Instructor:  course.Instructor,
		ImageURL:    course.ImageURL,
	}
	if !course.CreatedAt.IsZero() {
		resp.CreatedAt = course.CreatedAt.Format("2006-01-02")
	}
	return resp
}

func toEnrollmentResponse(enrollment domain.Enrollment, course *courseResponse) enrollmentResponse {
	return enrollmentResponse{
		ID:         enrollment.ID,
		UserID:     enrollment.UserID,
		CourseID:   enrollment.CourseID,
		EnrolledAt: enrollment.EnrolledAt,
		UserRating: enrollment.UserRating,
		Course:     course,
	}
}

func decodeIDParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return "", fmt.Errorf("missing id parameter")
	}
	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid id parameter")
	}
	return id, nil
}
