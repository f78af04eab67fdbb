package virtualmodel

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ChatCompletionRequest is the subset of the OpenAI request the mock reads.
type ChatCompletionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Stream bool `json:"stream"`
}

// Handler handles HTTP requests for virtual models
type Handler struct {
	registry *Registry
}

// NewHandler creates a new virtual model handler
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// Router builds a gin engine exposing the OpenAI-compatible surface.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/v1/models", h.ListModels)
	r.POST("/v1/chat/completions", h.ChatCompletions)
	r.POST("/chat/completions", h.ChatCompletions)
	return r
}

// ListModels handles the GET /v1/models endpoint
func (h *Handler) ListModels(c *gin.Context) {
	data := make([]gin.H, 0)
	for _, id := range h.registry.IDs() {
		data = append(data, gin.H{"id": id, "object": "model"})
	}
	c.JSON(http.StatusOK, gin.H{"object": "list", "data": data})
}

// ChatCompletions handles the POST /v1/chat/completions endpoint
func (h *Handler) ChatCompletions(c *gin.Context) {
	var req ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"message": "Invalid request body: " + err.Error(),
				"type":    "invalid_request_error",
			},
		})
		return
	}

	if req.Model == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"message": "Model is required",
				"type":    "invalid_request_error",
			},
		})
		return
	}

	vm := h.registry.Get(req.Model)
	if vm == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"message": fmt.Sprintf("Model not found: %s", req.Model),
				"type":    "invalid_request_error",
			},
		})
		return
	}

	if req.Stream {
		h.handleStreaming(c, &req, vm)
	} else {
		h.handleNonStreaming(c, &req, vm)
	}
}

// handleNonStreaming returns the whole response as one buffered body.
func (h *Handler) handleNonStreaming(c *gin.Context, req *ChatCompletionRequest, vm *VirtualModel) {
	completionTokens := estimateTokens(vm.Content)
	c.JSON(http.StatusOK, gin.H{
		"id":      fmt.Sprintf("chatcmpl-virtual-%d", time.Now().Unix()),
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   req.Model,
		"choices": []gin.H{{
			"index": 0,
			"message": gin.H{
				"role":    "assistant",
				"content": vm.Content,
			},
			"finish_reason": "stop",
		}},
		"usage": gin.H{
			"prompt_tokens":     estimateRequestTokens(req),
			"completion_tokens": completionTokens,
			"total_tokens":      estimateRequestTokens(req) + completionTokens,
		},
	})
}

// handleStreaming emits the content as OpenAI chat completion chunks.
func (h *Handler) handleStreaming(c *gin.Context, req *ChatCompletionRequest, vm *VirtualModel) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	if _, ok := c.Writer.(http.Flusher); !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"message": "Streaming not supported by this connection",
				"type":    "api_error",
			},
		})
		return
	}

	id := fmt.Sprintf("chatcmpl-virtual-%d", time.Now().Unix())
	created := time.Now().Unix()

	c.Stream(func(w io.Writer) bool {
		send := func(delta gin.H, finish interface{}) bool {
			select {
			case <-c.Request.Context().Done():
				logrus.Debug("Client disconnected during streaming")
				return false
			default:
			}
			c.SSEvent("", gin.H{
				"id":      id,
				"object":  "chat.completion.chunk",
				"created": created,
				"model":   req.Model,
				"choices": []gin.H{{
					"index":         0,
					"delta":         delta,
					"finish_reason": finish,
				}},
			})
			c.Writer.Flush()
			if vm.Delay > 0 {
				time.Sleep(vm.Delay)
			}
			return true
		}

		if !send(gin.H{"role": "assistant"}, nil) {
			return false
		}
		if vm.Thinking != "" && !send(gin.H{"reasoning_content": vm.Thinking}, nil) {
			return false
		}
		for _, chunk := range vm.Chunks() {
			if !send(gin.H{"content": chunk}, nil) {
				return false
			}
		}
		if !send(gin.H{}, "stop") {
			return false
		}

		completionTokens := estimateTokens(vm.Content) + estimateTokens(vm.Thinking)
		c.SSEvent("", gin.H{
			"id":      id,
			"object":  "chat.completion.chunk",
			"created": created,
			"model":   req.Model,
			"choices": []gin.H{},
			"usage": gin.H{
				"prompt_tokens":     estimateRequestTokens(req),
				"completion_tokens": completionTokens,
				"total_tokens":      estimateRequestTokens(req) + completionTokens,
			},
		})
		c.Writer.Flush()

		c.SSEvent("", "[DONE]")
		c.Writer.Flush()
		return false
	})
}

// estimateTokens approximates a token count at ~4 characters per token.
func estimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + 3) / 4
}

// estimateRequestTokens approximates the prompt token count of a request.
func estimateRequestTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += estimateTokens(msg.Content) + 5
	}
	return total
}
