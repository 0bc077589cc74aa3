package nn

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// Example:
//
//	mse := nn.NewMSELoss[Backend]()
//	loss := mse.Forward(model.Forward(input), targets)
//	grads := autodiff.Backward(loss)
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward computes the MSE loss as a scalar tensor (shape []).
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}
	return predictions.Sub(targets).Powf(2).Mean()
}

// CrossEntropyLoss computes the mean negative log-likelihood of class
// targets under softmax(logits).
//
// Loss = -mean(sum(onehot(targets) * log(softmax(logits, 1)), 1))
//
// Example:
//
//	ce := nn.NewCrossEntropyLoss[Backend]()
//	loss := ce.Forward(model.Forward(input), []int{2, 0, 1})
type CrossEntropyLoss[B tensor.Backend] struct{}

// NewCrossEntropyLoss creates a new cross-entropy loss function.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{}
}

// Forward computes the loss of logits [N, C] against N class indices.
func (c *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets []int) *tensor.Tensor[float32, B] {
	shape := logits.Shape()
	if len(shape) != 2 || shape[0] != len(targets) {
		panic(fmt.Sprintf("CrossEntropyLoss: logits %v do not match %d targets", shape, len(targets)))
	}
	onehot, err := OneHot(targets, shape[1], logits.Backend())
	if err != nil {
		panic(fmt.Sprintf("CrossEntropyLoss: %v", err))
	}
	logProbs := logits.Softmax(1).Log()
	return logProbs.Mul(onehot).SumDim(1, false).Mean().Neg()
}

// OneHot encodes class indices as rows of a [len(labels), classes] tensor.
func OneHot[B tensor.Backend](labels []int, classes int, backend B) (*tensor.Tensor[float32, B], error) {
	data := make([]float32, len(labels)*classes)
	for i, label := range labels {
		if label < 0 || label >= classes {
			return nil, errors.Errorf("label %d at %d out of range [0, %d)", label, i, classes)
		}
		data[i*classes+label] = 1
	}
	return tensor.FromSlice(data, tensor.Shape{len(labels), classes}, backend)
}
