// Package asset defines the data shapes and loader interface the
// render core consumes from an asset pipeline, without providing any
// loader implementation. Concrete formats (BSP, VTF, VMT, MDL/VVD/VTX,
// glTF) live behind Loader implementations outside this module; asset
// only fixes the boundary those implementations produce against.
package asset
