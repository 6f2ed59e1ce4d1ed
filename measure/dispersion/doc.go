// Package dispersion fits angle-resolved polariton dispersion data.
//
// Lower- and upper-branch peak positions over incidence angle are fit
// jointly — both branches stacked into one residual vector — against a
// coupled-oscillator model with three free parameters: the Rabi splitting,
// the effective intracavity refractive index and the normal-incidence cavity
// energy. Fitting the branches separately would leave the three shared
// parameters underdetermined.
//
// For a single molecular mode the closed-form two-level branches are used;
// for several modes the star-coupled Hamiltonian is diagonalized per angle
// and the lowest/highest eigenvalues are taken as the branches.
//
// Angles are in degrees, energies and positions in cm^-1.
package dispersion
