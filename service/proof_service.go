package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"khichik-studio/models"
	"khichik-studio/placement"
	"khichik-studio/utils"
)

//go:embed templates/proof.html
var proofTemplateHTML string

var proofTemplate = template.Must(template.New("proof").Parse(proofTemplateHTML))

// ProofService renders a printable proof sheet of a design session
type ProofService struct {
	baseURL string // Base URL the browser uses to reach this server (e.g., "http://localhost:8080")
}

// NewProofService creates a new ProofService
func NewProofService(baseURL string) *ProofService {
	return &ProofService{baseURL: baseURL}
}

// browserNames are looked up on PATH, in order, when CHROME_PATH does not name a usable file
var browserNames = []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"}

// proofBrowser picks the executable chromedp drives. An empty result lets chromedp use its own search.
func proofBrowser() string {
	return findBrowser(os.Getenv("CHROME_PATH"), browserNames, exec.LookPath)
}

func findBrowser(override string, names []string, lookPath func(string) (string, error)) string {
	if override != "" {
		if info, err := os.Stat(override); err == nil && !info.IsDir() {
			return override
		}
		log.Printf("⚠️  CHROME_PATH %q is not a file, looking for a browser on PATH", override)
	}
	for _, name := range names {
		if path, err := lookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// RenderProofHTML renders the proof sheet with the composite inlined
func (s *ProofService) RenderProofHTML(ctx context.Context, session *DesignSession) (string, error) {
	preview, err := session.Render(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	state := session.State()

	data := struct {
		SessionID   string
		PreviewURL  template.URL
		ArtworkURL  template.URL
		Color       template.CSS
		ColorName   string
		Size        string
		Price       string
		FileName    string
		Degraded    bool
		Transform   models.Transform
		Rotation    float64
		GeneratedAt string
	}{
		SessionID:   state.ID,
		PreviewURL:  template.URL(PNGDataURL(preview)),
		Color:       template.CSS(state.Color),
		ColorName:   state.ColorName,
		Size:        state.Size,
		Price:       utils.FormatINR(utils.CalculatePrice(state.Size)),
		Transform:   state.Transform,
		Rotation:    placement.NormalizeRotation(state.Transform.RotationDeg),
		GeneratedAt: time.Now().Format("02 Jan 2006 15:04"),
	}
	if state.Artwork != nil {
		ref := state.Artwork.DisplayRef()
		data.ArtworkURL = template.URL(ref.URL)
		data.FileName = state.Artwork.FileName
		data.Degraded = state.Artwork.Degraded
	}

	var buf bytes.Buffer
	if err := proofTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints the proof render page of a session to PDF using chromedp
func (s *ProofService) GeneratePDF(ctx context.Context, sessionID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := proofBrowser(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/designs/%s/proof/render", s.baseURL, sessionID)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
