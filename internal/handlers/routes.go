package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Backend: deps.StoreBackend}
	users := UserHandler{Users: deps.Users, Limiter: deps.UploadLimiter}
	posts := PostHandler{Posts: deps.Posts, Limiter: deps.UploadLimiter}
	training := TrainingHandler{Videos: deps.Training, Limiter: deps.UploadLimiter}
	opportunities := OpportunityHandler{Opportunities: deps.Opportunities}

	mux.HandleFunc("GET /{$}", Root)
	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("GET /users", users.List)
	mux.HandleFunc("GET /users/{id}", users.Get)
	mux.HandleFunc("GET /users/{id}/posts", posts.ListByUser)

	mux.HandleFunc("GET /profiles/{id}", users.GetProfile)
	mux.HandleFunc("POST /profiles", users.CreateProfile)
	mux.HandleFunc("PUT /profiles/{id}", users.UpdateProfile)
	mux.HandleFunc("POST /profiles/{id}/image", users.UploadProfileImage)
	mux.HandleFunc("POST /profiles/{id}/cover", users.UploadCoverImage)

	mux.HandleFunc("GET /feed", posts.Feed)
	mux.HandleFunc("POST /posts", posts.Create)
	mux.HandleFunc("POST /posts/{id}/like", posts.Like)
	mux.HandleFunc("GET /posts/{id}/comments", posts.Comments)
	mux.HandleFunc("POST /posts/{id}/comments", posts.AddComment)

	mux.HandleFunc("GET /training/videos", training.List)
	mux.HandleFunc("POST /training/videos", training.Create)

	mux.HandleFunc("GET /opportunities", opportunities.List)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserService
	Posts         PostService
	Training      TrainingVideoService
	Opportunities OpportunityService
	UploadLimiter RateLimiter
	StoreBackend  string
}
