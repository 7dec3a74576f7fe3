package constants

const KBoltzmann float64 = 8.617333262e-5              // [eV K^{-1}]
const NeutronMassAMU float64 = 1.00866491606            // [u]
const WavelengthToEnergy float64 = 0.0818042096053309   // E [eV] * lambda^2 [Aa^2]
const Fm2ToBarn float64 = 1e-2                          // 1 fm^2 = 0.01 b
const DefaultEmaxCeiling float64 = 100.                 // [eV]
const MinEnergyGrid float64 = 1e-5                      // [eV]
