package service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	ort "github.com/yalue/onnxruntime_go"

	"khichik-studio/models"
)

// ONNXBackgroundRemover runs a local ISNet-style segmentation model.
// The model takes a [1,3,S,S] float image and returns a [1,1,S,S] matte.
type ONNXBackgroundRemover struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	size         int
}

// NewONNXBackgroundRemover loads the runtime library and the model
func NewONNXBackgroundRemover(libraryPath, modelPath, inputName, outputName string, size int) (*ONNXBackgroundRemover, error) {
	// Must be set before InitializeEnvironment
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
	}

	s := int64(size)
	inputTensor, err := ort.NewTensor([]int64{1, 3, s, s}, make([]float32, 3*size*size))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	outputTensor, err := ort.NewTensor([]int64{1, 1, s, s}, make([]float32, size*size))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	sessionOptions, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer sessionOptions.Destroy()

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{inputName},
		[]string{outputName},
		[]ort.Value{inputTensor},
		[]ort.Value{outputTensor},
		sessionOptions,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("✓ ONNX background remover loaded: %s (%dx%d)", modelPath, size, size)
	return &ONNXBackgroundRemover{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		size:         size,
	}, nil
}

// Ensure ONNXBackgroundRemover implements BackgroundRemover
var _ BackgroundRemover = (*ONNXBackgroundRemover)(nil)

// Remove segments the foreground and returns it as PNG with the matte as alpha.
// Inference is serialized since the tensors are shared.
func (r *ONNXBackgroundRemover) Remove(ctx context.Context, imageData []byte, cfg models.RemovalConfig) ([]byte, error) {
	img, err := DecodeImage(imageData)
	if err != nil {
		return nil, err
	}

	input := isnetInput(img, r.size)

	r.mu.Lock()
	if err := ctx.Err(); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	copy(r.inputTensor.GetData(), input)
	if err := r.session.Run(); err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("failed to run inference: %w", err)
	}
	matte := make([]float32, len(r.outputTensor.GetData()))
	copy(matte, r.outputTensor.GetData())
	r.mu.Unlock()

	return EncodePNG(applyMatte(img, matte, r.size))
}

// Destroy releases the session and tensors
func (r *ONNXBackgroundRemover) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.Destroy()
	r.inputTensor.Destroy()
	r.outputTensor.Destroy()
	ort.DestroyEnvironment()
}

// isnetInput resizes img to size x size and lays it out planar CHW,
// normalized with mean 0.5 and std 1.0
func isnetInput(img image.Image, size int) []float32 {
	resized := imaging.Resize(img, size, size, imaging.Linear)
	plane := size * size
	out := make([]float32, 3*plane)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := resized.PixOffset(x, y)
			p := y*size + x
			out[p] = float32(resized.Pix[i])/255 - 0.5
			out[plane+p] = float32(resized.Pix[i+1])/255 - 0.5
			out[2*plane+p] = float32(resized.Pix[i+2])/255 - 0.5
		}
	}
	return out
}

// applyMatte min-max normalizes the model output, scales it to the image size
// and uses it as the alpha channel
func applyMatte(img image.Image, matte []float32, size int) *image.NRGBA {
	lo, hi := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for _, v := range matte {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	mask := image.NewGray(image.Rect(0, 0, size, size))
	for i, v := range matte {
		mask.Pix[i] = uint8(math.Round(float64((v - lo) / span * 255)))
	}

	out := imaging.Clone(img)
	b := out.Bounds()
	scaled := imaging.Resize(mask, b.Dx(), b.Dy(), imaging.Linear)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := scaled.NRGBAAt(x, y).R
			c := out.NRGBAAt(x, y)
			out.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(uint16(c.A) * uint16(a) / 255)})
		}
	}
	return out
}
