package policy

// DefaultPolicyText is the built-in standard auto policy document used when
// the retrieval backend is unconfigured, empty, or failing.
const DefaultPolicyText = `STANDARD AUTO INSURANCE POLICY

PART A - LIABILITY COVERAGE
We will pay damages for bodily injury or property damage for which any insured becomes legally responsible because of an auto accident. The most we pay is the limit shown on the declarations page.

PART B - MEDICAL PAYMENTS COVERAGE
We will pay reasonable medical expenses for bodily injury caused by an accident. Coverage applies to the named insured and family members while occupying a motor vehicle.

PART C - UNINSURED MOTORISTS COVERAGE
We will pay compensatory damages which an insured is legally entitled to recover from the owner or operator of an uninsured motor vehicle.

PART D - COLLISION COVERAGE
We will pay for direct and accidental loss to your covered auto caused by collision less any applicable deductible. Standard deductibles: $250, $500, $750, $1000.

PART E - COMPREHENSIVE COVERAGE
We will pay for direct and accidental loss to your covered auto not caused by collision. This includes theft, vandalism, weather damage, falling objects, fire, and animal collisions.

EXCLUSIONS:
- Damage from wear and tear, mechanical failure, or road damage to tires
- Loss from nuclear hazard or war
- Loss to equipment not factory-installed
- Damage while vehicle used for commercial purposes without endorsement
- Damage while vehicle operated by unlicensed driver
- Losses occurring outside the coverage territory

CLAIM PROCEDURES:
1. Report the claim within 48 hours of the incident
2. Provide a police report for theft, vandalism, or accidents involving injury
3. Submit repair estimates from certified repair facilities
4. Cooperate with the claims investigation
5. Do not authorize repairs without prior approval for claims exceeding $2,000

DEDUCTIBLES:
Standard deductible applies per incident. Deductible is waived if the insured is not at fault and the at-fault party is identified.

SETTLEMENT:
Claims are settled based on actual cash value or repair cost, whichever is less. Depreciation applies to parts replacement. Maximum payout per incident shall not exceed the coverage limit.`
