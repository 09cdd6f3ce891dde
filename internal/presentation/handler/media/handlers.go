package media

import (
	"errors"
	"log"
	"net/http"

	"github.com/newswired/livedesk/internal/infrastructure/json"
	"github.com/newswired/livedesk/internal/infrastructure/media"
)

type Handler struct {
	uploader *media.Uploader
	maxSize  int64
}

func NewHandler(uploader *media.Uploader, maxSize int64) *Handler {
	return &Handler{
		uploader: uploader,
		maxSize:  maxSize,
	}
}

// UploadHandler godoc
// @Summary      Upload an image for an update
// @Description  Forwards the file to the media endpoint and returns its durable URL
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Success      201 {object} media.UploadResult "Upload accepted"
// @Failure      400 {object} map[string]interface{} "Bad request - missing file"
// @Failure      502 {object} map[string]interface{} "Media endpoint failure"
// @Router       /media [post]
func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)

	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		json.WriteValidationError(w, errors.New("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		json.WriteValidationError(w, errors.New("file field is required"))
		return
	}
	defer file.Close()

	mediaType := r.FormValue("mediaType")
	if mediaType == "" {
		mediaType = header.Header.Get("Content-Type")
	}

	result, err := h.uploader.Upload(r.Context(), header.Filename, mediaType, file)
	if err != nil {
		log.Printf("media upload failed: %v", err)
		json.WriteError(w, http.StatusBadGateway, err, "Media upload failed; please retry")
		return
	}

	json.Write(w, http.StatusCreated, result)
}
