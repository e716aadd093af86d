package router

import (
	"net/http"
	"strings"

	"khichik-studio/app/controller"
)

type Controllers struct {
	Design     *controller.DesignSessionController
	Live       *controller.LivePreviewController
	Proof      *controller.ProofController
	Image      *controller.ImageController
	Mockup     *controller.MockupController
	Submission *controller.SubmissionController // nil unless the postgres sink is enabled
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on mux
func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Create a design session
	mux.HandleFunc("/designs", controllers.Design.Create)

	// Design session actions, dispatched on the path after /designs/{id}
	mux.HandleFunc("/designs/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/designs/")
		_, action, _ := strings.Cut(path, "/")

		switch action {
		case "":
			controllers.Design.Session(w, r)
		case "upload":
			controllers.Design.Upload(w, r)
		case "color":
			controllers.Design.Color(w, r)
		case "size":
			controllers.Design.Size(w, r)
		case "pointer":
			controllers.Design.Pointer(w, r)
		case "scale":
			controllers.Design.Scale(w, r)
		case "rotate":
			controllers.Design.Rotate(w, r)
		case "reset":
			controllers.Design.Reset(w, r)
		case "preview.png":
			controllers.Design.Preview(w, r)
		case "commit":
			controllers.Design.Commit(w, r)
		case "live":
			controllers.Live.Live(w, r)
		case "proof/render":
			controllers.Proof.RenderProof(w, r)
		case "proof.pdf":
			controllers.Proof.DownloadProof(w, r)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	// Stored artwork
	mux.HandleFunc("/images/", controllers.Image.GetImage)

	// Garment colours and mockup files
	mux.HandleFunc("/mockups", controllers.Mockup.ListVariants)
	mux.HandleFunc("/mockups/", controllers.Mockup.ServeFile)

	// Committed designs
	if controllers.Submission != nil {
		mux.HandleFunc("/admin/submissions/", controllers.Submission.GetSubmission)
	}
}
