package narrative

// Prompt templates for the three report stages. Kept in one place so the
// stage contract code stays free of prose.

// DataPrompt embeds shape, column list, and numeric statistics.
const DataPrompt = `Here is a description of the financial data:
- Combined dataset has shape (%d, %d)
- Columns: %s
%s

Provide a brief analysis noting:
1. Key observations about the data structure
2. Any notable patterns or anomalies
3. Data quality assessment

Keep response concise and professional.`

// RiskPrompt embeds record count, the computed risk score, per-column
// volatility figures, and the data stage's narrative.
const RiskPrompt = `Conduct a comprehensive risk assessment based on:

Data Overview:
- Dataset length: %d records
- Initial risk score: %.2f/100
%s

Data Analyst Comments:
%s

Provide a professional risk assessment covering:
1. Overall risk rating (Low/Medium/High)
2. Specific risk factors identified
3. Liquidity and volatility concerns
4. Recommended risk mitigation strategies

Keep response structured and actionable.`

// StrategyPrompt embeds the risk score and both prior narratives.
const StrategyPrompt = `Develop a comprehensive market strategy based on:

Risk Score: %.2f/100

Risk Assessment:
%s

Data Insights:
%s

Provide strategic recommendations including:
1. Overall strategic direction
2. Investment priorities and allocations
3. Growth opportunities identified
4. Specific action items with timeline
5. Key performance indicators to monitor

Keep recommendations practical and actionable.`
