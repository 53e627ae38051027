package api

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"clipcast/music"
	"clipcast/pipeline"
	"clipcast/providers"
	"clipcast/store"
	"clipcast/subtitles"
	"clipcast/types"
)

const previewText = "This is how your video will sound. Pretty cool, right?"

// Controller wires HTTP handlers to the pipeline and project store.
type Controller struct {
	orchestrator *pipeline.Orchestrator
	store        store.Store
	// preview is the TTS backend for voice previews; nil means previews
	// are unavailable (demo mode).
	preview providers.SpeechProvider
	script  providers.ScriptProvider

	previewMu    sync.Mutex
	previewCache map[string][]byte
}

func NewController(o *pipeline.Orchestrator, st store.Store, set *providers.Set, previewEnabled bool) *Controller {
	c := &Controller{
		orchestrator: o,
		store:        st,
		script:       set.Script,
		previewCache: make(map[string][]byte),
	}
	if previewEnabled {
		c.preview = set.Speech
	}
	return c
}

// RegisterProjectRoutes registers generation and status endpoints.
func (c *Controller) RegisterProjectRoutes(r *gin.Engine) {
	r.POST("/api/generate", c.handleGenerate)
	r.POST("/api/script", c.handleScript)
	r.GET("/api/status/:id", c.handleStatus)
	r.GET("/api/projects", c.handleListProjects)
}

// RegisterCatalogRoutes registers the static catalog endpoints.
func (c *Controller) RegisterCatalogRoutes(r *gin.Engine) {
	r.GET("/api/music", c.handleMusic)
	r.GET("/api/captions", c.handleCaptionStyles)
	r.GET("/api/voices", c.handleVoices)
	r.GET("/api/voices/preview", c.handleVoicePreview)
}

// handleGenerate starts a background generation run and returns the new
// project ID immediately.
// POST /api/generate
func (c *Controller) handleGenerate(ctx *gin.Context) {
	var req pipeline.Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	project, err := c.orchestrator.Start(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, types.ErrInvalidInput) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("generate failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start generation"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"projectId": project.ID,
		"status":    project.Status,
	})
}

// handleScript generates just the scene script, without starting a project.
// POST /api/script
func (c *Controller) handleScript(ctx *gin.Context) {
	var req struct {
		Topic     string `json:"topic"`
		Style     string `json:"style"`
		NumScenes int    `json:"numScenes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Topic == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}
	if req.Style == "" {
		req.Style = "realistic"
	}
	if req.NumScenes <= 0 {
		req.NumScenes = 6
	}

	scenes, err := c.script.GenerateScript(ctx.Request.Context(), req.Topic, req.Style, req.NumScenes)
	if err != nil {
		if errors.Is(err, types.ErrInvalidInput) {
			ctx.JSON(http.StatusBadGateway, gin.H{"error": "script output was malformed"})
			return
		}
		log.Printf("script generation failed: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "script generation failed"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"scenes": scenes})
}

// handleStatus returns the current project snapshot.
// GET /api/status/:id
func (c *Controller) handleStatus(ctx *gin.Context) {
	project, err := c.store.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		log.Printf("status lookup failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	ctx.JSON(http.StatusOK, project)
}

// handleListProjects returns all projects, newest first.
// GET /api/projects
func (c *Controller) handleListProjects(ctx *gin.Context) {
	projects, err := c.store.List(ctx.Request.Context())
	if err != nil {
		log.Printf("project list failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"projects": projects})
}

// handleMusic returns the music catalog, filtered to a style's suggested
// moods when ?style= is given.
// GET /api/music
func (c *Controller) handleMusic(ctx *gin.Context) {
	if style := ctx.Query("style"); style != "" {
		ctx.JSON(http.StatusOK, gin.H{"tracks": music.TracksForStyle(style)})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"tracks": music.Tracks()})
}

// handleCaptionStyles lists the burned-in caption presets.
// GET /api/captions
func (c *Controller) handleCaptionStyles(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"styles": subtitles.Styles()})
}

// handleVoices lists the available narration voices.
// GET /api/voices
func (c *Controller) handleVoices(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"voices": providers.VoiceNames()})
}

// handleVoicePreview returns a short spoken sample for a voice. Previews
// never change, so they are synthesized once and cached for the process
// lifetime.
// GET /api/voices/preview?voice=rachel
func (c *Controller) handleVoicePreview(ctx *gin.Context) {
	voice := ctx.DefaultQuery("voice", "rachel")
	if !providers.ValidVoice(voice) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid voice"})
		return
	}

	c.previewMu.Lock()
	cached, ok := c.previewCache[voice]
	c.previewMu.Unlock()
	if ok {
		ctx.Header("Cache-Control", "public, max-age=86400")
		ctx.Data(http.StatusOK, "audio/mpeg", cached)
		return
	}

	if c.preview == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice preview unavailable in demo mode"})
		return
	}

	audio, err := c.preview.Synthesize(ctx.Request.Context(), previewText, voice)
	if err != nil {
		log.Printf("voice preview failed for %s: %v", voice, err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "preview synthesis failed"})
		return
	}

	c.previewMu.Lock()
	c.previewCache[voice] = audio
	c.previewMu.Unlock()

	ctx.Header("Cache-Control", "public, max-age=86400")
	ctx.Data(http.StatusOK, "audio/mpeg", audio)
}
