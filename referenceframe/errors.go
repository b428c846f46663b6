package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrCircularReference is returned when a kinematic chain refers back to itself.
var ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

// ErrNeedOneEndEffector is returned when a model does not have exactly one end effector.
var ErrNeedOneEndEffector = errors.New("need exactly one end effector")

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// NewIncorrectDoFError returns an error indicating that the length of an input slice does not match the
// degrees of freedom of the frame it is applied to.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewFrameMissingError returns an error indicating that the given frame is missing.
func NewFrameMissingError(frameName string) error {
	return errors.Errorf("frame with name %q not in frame system", frameName)
}

// NewFrameNotInListOfTransformsError returns an error indicating that a frame is not in the list of transforms.
func NewFrameNotInListOfTransformsError(frameName string) error {
	return fmt.Errorf("frame named '%s' not in the list of transforms", frameName)
}

// NewParentFrameNotInMapOfParentsError returns an error indicating that the parent of a frame is unknown.
func NewParentFrameNotInMapOfParentsError(frameName string) error {
	return fmt.Errorf("parent frame named '%s' not in the map of parents", frameName)
}

// NewReservedWordError returns an error indicating that the configuration uses a reserved word.
func NewReservedWordError(configType, reservedWord string) error {
	return fmt.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewUnsupportedJointTypeError returns an error indicating that a joint type is not supported.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}

// NewDuplicateFrameNameError returns an error indicating that two frames of a model share a name.
func NewDuplicateFrameNameError(frameName string) error {
	return errors.Errorf("cannot have more than one frame with name %q", frameName)
}
