package routes

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

const maxAttachmentSize = 10 << 20 // 10 MiB

var allowedAttachmentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// UploadAttachment stores a supporting document and returns the object key
// the client then puts on its application.
func UploadAttachment(ctx iris.Context) {
	if storage.Documents == nil {
		utils.CreateError(iris.StatusServiceUnavailable, "Storage Error",
			"Document storage is not configured.", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	ctx.SetMaxRequestBodySize(maxAttachmentSize)
	file, header, err := ctx.FormFile("file")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "A 'file' form field is required.", ctx)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedAttachmentTypes[ext]
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Only PDF, JPG and PNG attachments are accepted.", ctx)
		return
	}

	data, readErr := io.ReadAll(file)
	if readErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	objectKey := fmt.Sprintf("attachments/%d/%s%s", claims.ID, uuid.NewString(), ext)
	if err := storage.Documents.Put(ctx.Request().Context(), objectKey, data, contentType); err != nil {
		utils.CreateError(iris.StatusServiceUnavailable, "Storage Error", "Upload failed.", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"key": objectKey})
}
