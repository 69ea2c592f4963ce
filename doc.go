// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package decide is the overall repository for the Wong & Wang (2006) reduced
two-population decision-making model implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* fi: the Abbott-Chance frequency-current (f-I) transfer function that maps
a population's synaptic input current onto its firing rate, including the
analytic treatment of the removable singularity at the rheobase point.

* decide: the core model -- parameters, per-trial stochastic integration of
the two NMDA gating variables, first-crossing decision detection, the
coherence sweep environment, and the experiment runner that aggregates
trials into psychometric / chronometric tables.

* examples: these compile into runnable programs.  examples/simulate is the
command-line batch runner that sweeps coherence levels (and optionally
threshold, noise, inhibition, or background drive) and saves CSV results
plus JSON run metadata.  examples/fiplot plots the transfer function.
*/
package decide
