package tracker

// Wire types for the tracker backend API

type engineersResponse struct {
	Engineers []engineerDTO `json:"engineers"`
}

type projectsResponse struct {
	Projects []projectDTO `json:"projects"`
}

type assignmentsResponse struct {
	Assignments []assignmentDTO `json:"assignments"`
}

type engineerDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

type projectDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Health    string `json:"health"`
	Lead      string `json:"lead"`
	StartDate string `json:"startDate"` // "2006-01-02", may be empty
	EndDate   string `json:"endDate"`
}

type assignmentDTO struct {
	ID         string `json:"id"`
	EngineerID string `json:"engineerId"`
	ProjectID  string `json:"projectId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Percent    int    `json:"percent"`
}
