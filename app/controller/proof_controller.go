package controller

import (
	"fmt"
	"log"
	"net/http"

	"khichik-studio/service"
)

// ProofController renders the printable proof of a design session
type ProofController struct {
	sessions     service.SessionManagerInterface
	proofService *service.ProofService
}

// NewProofController creates a new ProofController
func NewProofController(sessions service.SessionManagerInterface, proofService *service.ProofService) *ProofController {
	return &ProofController{
		sessions:     sessions,
		proofService: proofService,
	}
}

// RenderProof handles GET /designs/{id}/proof/render
// Returns the HTML proof sheet (used by chromedp for PDF generation)
func (c *ProofController) RenderProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.sessions.Get(sessionIDFromPath(r.URL.Path))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	htmlContent, err := c.proofService.RenderProofHTML(r.Context(), session)
	if err != nil {
		log.Printf("❌ RenderProof: Error rendering HTML: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render proof: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(htmlContent)); err != nil {
		log.Printf("❌ RenderProof: Error writing HTML response: %v", err)
	}
}

// DownloadProof handles GET /designs/{id}/proof.pdf
func (c *ProofController) DownloadProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.sessions.Get(sessionIDFromPath(r.URL.Path))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	log.Printf("📄 Generating proof PDF for session %s", session.ID())
	pdf, err := c.proofService.GeneratePDF(r.Context(), session.ID())
	if err != nil {
		log.Printf("❌ DownloadProof: %v", err)
		http.Error(w, fmt.Sprintf("Failed to generate proof: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"proof-%s.pdf\"", session.ID()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("❌ DownloadProof: Error writing PDF response: %v", err)
	}
}
