package attendance

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
	Notes     *string  `json:"notes" binding:"omitempty,max=500"`
}

type CheckOutRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=500"`
}

type ListAttendanceRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=366"`
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	AttendanceDate string   `json:"attendance_date"`
	CheckIn        string   `json:"check_in"`
	CheckOut       *string  `json:"check_out,omitempty"`
	Status         string   `json:"status"`
	TotalHours     string   `json:"total_hours"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}
