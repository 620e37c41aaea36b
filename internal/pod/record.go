// Package pod implements the longitudinal pod physics: the per-step state
// update for each propulsion regime and the phase selection that decides
// which regime governs the next step.
package pod

// Record holds the physical quantities of one timestep. Each record is
// computed from its predecessor only. Records are written once; the single
// rewrite is the rotor-limit correction the driver applies one step late.
type Record struct {
	Velocity    float64 // m/s, pod longitudinal velocity
	Accel       float64 // m/s^2
	Distance    float64 // m along the track
	Theta       float64 // rad, accumulated rotor angle
	Omega       float64 // rad/s, rotor angular velocity
	Torque      float64 // N*m, net rotor torque
	LatTorque   float64 // N*m
	MotorTorque float64 // N*m, torque demanded from the motor
	PowerOut    float64 // W, mechanical output
	PowerLoss   float64 // W, dissipated across all wheel pairs
	PowerIn     float64 // W, output plus losses
	Efficiency  float64 // PowerOut/PowerIn, NaN when PowerIn is zero
	Slip        float64 // m/s, rotor surface speed minus pod speed
	Thrust      float64 // N, thrust per wheel pair
	LatThrust   float64 // N, lateral force per wheel (external input)
	Force       float64 // N, net longitudinal force on the pod
	LatForce    float64 // N, net lateral force on the pod
}
