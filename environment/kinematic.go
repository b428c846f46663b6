package environment

import (
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/pickplace/logging"
	"go.viam.com/pickplace/referenceframe"
	"go.viam.com/pickplace/spatialmath"
)

type mountedModel struct {
	model  referenceframe.Model
	mount  spatialmath.Pose
	values []float64
}

// KinematicEnvironment is an Environment backed by kinematic models, each mounted at a pose in the
// world. It is safe for concurrent use.
type KinematicEnvironment struct {
	mu           sync.RWMutex
	manipulators map[string]*mountedModel
	order        []string
	objects      map[string]spatialmath.Pose
	logger       logging.Logger
}

// NewKinematicEnvironment returns an empty environment.
func NewKinematicEnvironment(logger logging.Logger) *KinematicEnvironment {
	return &KinematicEnvironment{
		manipulators: map[string]*mountedModel{},
		objects:      map[string]spatialmath.Pose{},
		logger:       logger,
	}
}

// AddManipulator mounts a model in the world. Its joints start at zero.
func (env *KinematicEnvironment) AddManipulator(name string, model referenceframe.Model, mount spatialmath.Pose) error {
	if model == nil {
		return errors.Errorf("manipulator %q has no model", name)
	}
	if len(model.LinkNames()) == 0 {
		return errors.Errorf("manipulator %q has an empty kinematic chain", name)
	}
	if mount == nil {
		mount = spatialmath.NewZeroPose()
	}

	env.mu.Lock()
	defer env.mu.Unlock()
	if _, ok := env.manipulators[name]; ok {
		return NewDuplicateNameError("manipulator", name)
	}
	for _, link := range model.LinkNames() {
		if env.hasLinkLocked(link) {
			return NewDuplicateNameError("link", link)
		}
	}
	env.manipulators[name] = &mountedModel{model: model, mount: mount, values: make([]float64, len(model.DoF()))}
	env.order = append(env.order, name)
	env.logger.Debugw("added manipulator", "name", name, "joints", model.JointNames())
	return nil
}

// AddObject places a named static object, e.g. a part to pick, in the world.
func (env *KinematicEnvironment) AddObject(name string, pose spatialmath.Pose) error {
	env.mu.Lock()
	defer env.mu.Unlock()
	if env.hasLinkLocked(name) {
		return NewDuplicateNameError("object", name)
	}
	env.objects[name] = pose
	return nil
}

func (env *KinematicEnvironment) hasLinkLocked(name string) bool {
	if _, ok := env.objects[name]; ok {
		return true
	}
	for _, mm := range env.manipulators {
		for _, link := range mm.model.LinkNames() {
			if link == name {
				return true
			}
		}
	}
	return false
}

// SetJointValues updates the named manipulator's joint values. Snapshots taken before the update
// are not affected.
func (env *KinematicEnvironment) SetJointValues(name string, values []float64) error {
	env.mu.Lock()
	defer env.mu.Unlock()
	mm, ok := env.manipulators[name]
	if !ok {
		return NewManipulatorNotFoundError(name)
	}
	limits := mm.model.DoF()
	if len(values) != len(limits) {
		return referenceframe.NewIncorrectDoFError(len(values), len(limits))
	}
	for i, limit := range limits {
		if values[i] < limit.Min || values[i] > limit.Max {
			env.logger.Warnw("joint value outside of limits", "manipulator", name, "joint", i, "value", values[i])
		}
	}
	mm.values = append([]float64(nil), values...)
	return nil
}

// Manipulator resolves a manipulator by name.
func (env *KinematicEnvironment) Manipulator(name string) (Manipulator, error) {
	env.mu.RLock()
	defer env.mu.RUnlock()
	mm, ok := env.manipulators[name]
	if !ok {
		return nil, NewManipulatorNotFoundError(name)
	}
	return &kinematicManipulator{name: name, model: mm.model, baseLink: mm.model.LinkNames()[0]}, nil
}

// CurrentJointValues returns the joint values of every manipulator, in the order they were added.
func (env *KinematicEnvironment) CurrentJointValues() []float64 {
	env.mu.RLock()
	defer env.mu.RUnlock()
	var out []float64
	for _, name := range env.order {
		out = append(out, env.manipulators[name].values...)
	}
	return out
}

// ManipulatorJointValues returns a copy of the named manipulator's joint values.
func (env *KinematicEnvironment) ManipulatorJointValues(name string) ([]float64, error) {
	env.mu.RLock()
	defer env.mu.RUnlock()
	mm, ok := env.manipulators[name]
	if !ok {
		return nil, NewManipulatorNotFoundError(name)
	}
	return append([]float64(nil), mm.values...), nil
}

// State computes the world transform of every link and object at the current joint values.
// Links whose pose cannot be computed are logged and left out.
func (env *KinematicEnvironment) State() *State {
	env.mu.RLock()
	defer env.mu.RUnlock()
	state := NewState()
	for name, pose := range env.objects {
		state.Transforms[name] = pose
	}
	for _, name := range env.order {
		mm := env.manipulators[name]
		inputs := referenceframe.FloatsToInputs(mm.values)
		for i, joint := range mm.model.JointNames() {
			state.JointValues[joint] = mm.values[i]
		}
		for _, link := range mm.model.LinkNames() {
			pose, err := mm.model.LinkTransform(inputs, link)
			if pose == nil {
				env.logger.Warnw("unable to compute link transform", "manipulator", name, "link", link, "error", err)
				continue
			}
			state.Transforms[link] = spatialmath.Compose(mm.mount, pose)
		}
	}
	return state
}

type kinematicManipulator struct {
	name     string
	model    referenceframe.Model
	baseLink string
}

func (km *kinematicManipulator) Name() string {
	return km.name
}

func (km *kinematicManipulator) JointNames() []string {
	return km.model.JointNames()
}

func (km *kinematicManipulator) BaseLinkName() string {
	return km.baseLink
}

func (km *kinematicManipulator) CalcFwdKin(
	base spatialmath.Pose,
	joints []float64,
	link string,
	state *State,
) (spatialmath.Pose, error) {
	if base == nil {
		var err error
		if base, err = state.Transform(km.baseLink); err != nil {
			return nil, err
		}
	}
	inputs := referenceframe.FloatsToInputs(joints)
	// out of bounds joint values still produce poses and are not an error here
	basePose, err := km.model.LinkTransform(inputs, km.baseLink)
	if basePose == nil {
		return nil, errors.Wrapf(err, "forward kinematics of %q", km.name)
	}
	linkPose, err := km.model.LinkTransform(inputs, link)
	if linkPose == nil {
		return nil, errors.Wrapf(err, "forward kinematics of %q", km.name)
	}
	return spatialmath.Compose(base, spatialmath.PoseBetween(basePose, linkPose)), nil
}
