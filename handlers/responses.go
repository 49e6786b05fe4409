package handlers

import (
	"time"

	"workforce/models"
)

type userResponse struct {
	ID         uint        `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Role       models.Role `json:"role"`
	Supervisor *uint       `json:"supervisor"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		Supervisor: u.SupervisorID,
	}
}

func newUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	return out
}

type attendanceResponse struct {
	ID         uint            `json:"id"`
	Employee   string          `json:"employee"`
	ClockIn    time.Time       `json:"clock_in"`
	ClockOut   *time.Time      `json:"clock_out"`
	Date       models.DateOnly `json:"date"`
	TimeWorked *float64        `json:"time_worked"`
}

func newAttendanceResponse(a *models.Attendance) attendanceResponse {
	return attendanceResponse{
		ID:         a.ID,
		Employee:   username(a.Employee),
		ClockIn:    a.ClockIn,
		ClockOut:   a.ClockOut,
		Date:       models.NewDateOnly(a.Date),
		TimeWorked: a.TimeWorked(),
	}
}

func newAttendanceResponses(attendances []models.Attendance) []attendanceResponse {
	out := make([]attendanceResponse, 0, len(attendances))
	for i := range attendances {
		out = append(out, newAttendanceResponse(&attendances[i]))
	}
	return out
}

type taskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Employee    string            `json:"employee"`
	EmployeeID  uint              `json:"employee_id"`
	CreatedBy   *string           `json:"created_by"`
	Deadline    *models.DateOnly  `json:"deadline"`
	CompletedAt *time.Time        `json:"completed_at"`
	Status      models.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	OnTime      *bool             `json:"on_time"`
	Priority    models.Priority   `json:"priority"`
}

func newTaskResponse(t *models.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Employee:    username(t.Employee),
		EmployeeID:  t.EmployeeID,
		CompletedAt: t.CompletedAt,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		OnTime:      t.OnTime(),
		Priority:    t.Priority,
	}
	if t.CreatedBy != nil {
		resp.CreatedBy = &t.CreatedBy.Username
	}
	if t.Deadline != nil {
		d := models.NewDateOnly(*t.Deadline)
		resp.Deadline = &d
	}
	return resp
}

func newTaskResponses(tasks []models.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i]))
	}
	return out
}

type ratingResponse struct {
	ID        uint      `json:"id"`
	Task      uint      `json:"task"`
	RatedBy   *string   `json:"rated_by"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func newRatingResponse(r *models.Rating, rater *models.User) ratingResponse {
	resp := ratingResponse{
		ID:        r.ID,
		Task:      r.TaskID,
		Comment:   r.Comment,
		Rating:    r.Score,
		CreatedAt: r.CreatedAt,
	}
	if rater == nil {
		rater = r.RatedBy
	}
	if rater != nil {
		resp.RatedBy = &rater.Username
	}
	return resp
}

func newRatingResponses(ratings []models.Rating) []ratingResponse {
	out := make([]ratingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, newRatingResponse(&ratings[i], nil))
	}
	return out
}

func username(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
