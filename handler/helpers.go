package handler

import (
	"errors"
	"image"
	"net/http"

	"github.com/TIANLI0/LayerStudio/engine"
	"github.com/TIANLI0/LayerStudio/model"
	"github.com/TIANLI0/LayerStudio/utils"
	"github.com/gin-gonic/gin"
)

// statusForEngineError 把引擎错误类别映射为 HTTP 状态
func statusForEngineError(err error) int {
	switch {
	case errors.Is(err, engine.ErrDecode),
		errors.Is(err, engine.ErrInvalidDimensions),
		errors.Is(err, engine.ErrInsufficientInput),
		errors.Is(err, engine.ErrUnsupportedOperation),
		errors.Is(err, engine.ErrNoVisibleLayers):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrEmptyMask):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, status int, message string, err error) {
	resp := model.ErrorResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

func respondEngineError(c *gin.Context, message string, err error) {
	respondError(c, statusForEngineError(err), message, err)
}

// decodeRaster 解码 base64 图像为栅格
func decodeRaster(imageBase64 string) (*image.NRGBA, error) {
	data, err := utils.DecodeBase64Image(imageBase64)
	if err != nil {
		return nil, err
	}
	return engine.Decode(data)
}

// decodeMask 解码 base64 图像为灰度掩码
func decodeMask(maskBase64 string) (*image.Gray, error) {
	data, err := utils.DecodeBase64Image(maskBase64)
	if err != nil {
		return nil, err
	}
	return engine.DecodeMask(data)
}

func encodeRasterBase64(img *image.NRGBA) (string, error) {
	data, err := engine.Encode(img)
	if err != nil {
		return "", err
	}
	return utils.EncodeBase64Image(data), nil
}

func encodeMaskBase64(m *image.Gray) (string, error) {
	data, err := engine.EncodeMask(m)
	if err != nil {
		return "", err
	}
	return utils.EncodeBase64Image(data), nil
}
