package dto

// CategoryCountResponse is one bucket of a distribution.
type CategoryCountResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopRatedResponse is a ranked technician.
type TopRatedResponse struct {
	TechnicianID  string  `json:"technician_id"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// DashboardResponse is the admin statistics page.
type DashboardResponse struct {
	TotalTechnicians    int                     `json:"total_technicians"`
	ApprovedTechnicians int                     `json:"approved_technicians"`
	PendingTechnicians  int                     `json:"pending_technicians"`
	TotalReviews        int                     `json:"total_reviews"`
	ApprovedReviews     int                     `json:"approved_reviews"`
	PendingReviews      int                     `json:"pending_reviews"`
	SiteAverageRating   *float64                `json:"site_average_rating"`
	ByStatus            []CategoryCountResponse `json:"by_status"`
	ByCommune           []CategoryCountResponse `json:"by_commune"`
	BySkill             []CategoryCountResponse `json:"by_skill"`
	TopRated            []TopRatedResponse      `json:"top_rated"`
	PopularSkills       []CategoryCountResponse `json:"popular_skills"`
}
