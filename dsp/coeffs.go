package dsp

// Reference filter coefficients, carried over verbatim from the original
// narrowband and wideband FM demodulator designs. These are measured
// windowed-sinc lowpass kernels, not generated at runtime, so the
// receiver's passband shape matches the reference implementation exactly.

// NarrowTunerDecimatorTaps is the factor-4 decimator applied directly to
// the tuner's IF samples in the AM/narrowband FM chain.
var NarrowTunerDecimatorTaps = []float64{
	-0.0380330, 0.0012216, 0.0077779, 0.0148656,
	0.0183034, 0.0153173, 0.0060915, -0.0055089,
	-0.0139925, -0.0143264, -0.0050115, 0.0105109,
	0.0247893, 0.0296140, 0.0199914, -0.0025057,
	-0.0290992, -0.0463704, -0.0413861, -0.0073844,
	0.0523243, 0.1242772, 0.1888493, 0.2269707,
	0.2269707, 0.1888493, 0.1242772, 0.0523243,
	-0.0073844, -0.0413861, -0.0463704, -0.0290992,
	-0.0025057, 0.0199914, 0.0296140, 0.0247893,
	0.0105109, -0.0050115, -0.0143264, -0.0139925,
	-0.0055089, 0.0060915, 0.0153173, 0.0183034,
	0.0148656, 0.0077779, 0.0012216, -0.0380330,
}

// NarrowPostDemodDecimatorTaps is the factor-4 decimator applied to the
// demodulated baseband signal before audio decimation, in the narrowband
// (AM/FM) chain.
var NarrowPostDemodDecimatorTaps = []float64{
	-0.0266961, -0.0120813, 0.0278621, 0.1015842,
	0.1847865, 0.2402400, 0.2402400, 0.1847865,
	0.1015842, 0.0278621, -0.0120813, -0.0266961,
}

// NarrowAudioDecimatorTaps is the factor-2 decimator applied last, bringing
// the narrowband chain down to the audio output rate.
var NarrowAudioDecimatorTaps = []float64{
	-0.0011405, 0.0183372, 0.0030542, -0.0100052,
	-0.0059350, 0.0115377, 0.0109293, -0.0120883,
	-0.0175779, 0.0110390, 0.0262645, -0.0074772,
	-0.0377408, -0.0003152, 0.0541009, 0.0165897,
	-0.0829085, -0.0587608, 0.1736804, 0.4222137,
	0.4222137, 0.1736804, -0.0587608, -0.0829085,
	0.0165897, 0.0541009, -0.0003152, -0.0377408,
	-0.0074772, 0.0262645, 0.0110390, -0.0175779,
	-0.0120883, 0.0109293, 0.0115377, -0.0059350,
	-0.0100052, 0.0030542, 0.0183372, -0.0011405,
}

// WidePostDemodDecimator1Taps is the first stage (factor-4) decimation
// applied to the wideband FM discriminator output.
var WidePostDemodDecimator1Taps = []float64{
	0.0243699, 0.0769537, 0.1463572, 0.1967096,
	0.1967096, 0.1463572, 0.0769537, 0.0243699,
}

// WidePostDemodDecimator2Taps is the second stage (factor-4) decimation.
var WidePostDemodDecimator2Taps = []float64{
	0.0022977, 0.0237042, 0.0605386, 0.1127073,
	0.1645167, 0.1971107, 0.1971107, 0.1645167,
	0.1127073, 0.0605386, 0.0237042, 0.0022977,
}

// WideAudioDecimatorTaps is the third stage (factor-2) decimation bringing
// the wideband chain down to the audio output rate.
var WideAudioDecimatorTaps = []float64{
	0.0015969, -0.0111080, -0.0270501, -0.0265610,
	-0.0023190, 0.0180618, 0.0065495, -0.0183409,
	-0.0133345, 0.0184489, 0.0230891, -0.0161248,
	-0.0363745, 0.0091343, 0.0550219, 0.0070312,
	-0.0862280, -0.0497761, 0.1793543, 0.4145808,
	0.4145808, 0.1793543, -0.0497761, -0.0862280,
	0.0070312, 0.0550219, 0.0091343, -0.0363745,
	-0.0161248, 0.0230891, 0.0184489, -0.0133345,
	-0.0183409, 0.0065495, 0.0180618, -0.0023190,
	-0.0265610, -0.0270501, -0.0111080, 0.0015969,
}

// DeemphasisNumerator and DeemphasisDenominatorA1 define the single-pole
// de-emphasis shelf applied after WBFM demodulation.
var (
	DeemphasisNumerator     = []float64{0.0253863, 0.0253863}
	DeemphasisDenominatorA1 = -0.9492274
)

// PhaseDifferentiatorTaps is the 7-tap central-difference kernel used by the
// differentiated phase discriminator to approximate the derivative of the
// unwrapped phase sequence.
var PhaseDifferentiatorTaps = []float64{
	-1.0 / 16, 0, 1, 0, -1, 0, 1.0 / 16,
}
